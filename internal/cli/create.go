package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/editor"
	"github.com/magpiedev/magpie/internal/ui"
)

var (
	createTitle      string
	createCollection string
	createEdit       bool
)

var createCmd = &cobra.Command{
	Use:   "create [id]",
	Short: "Create a new entry",
	Long: `Create a new entry in the store. The entry ID is either given
directly or derived from --title by slugification.

A piped stdin becomes the entry body.

Examples:
  mag create notes/2026-08-31
  mag create --title "Meeting Notes" --collection notes   # notes/meeting-notes
  echo "body text" | mag create notes/quick
  mag create notes/draft --edit`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := createTargetID(args)
		if err != nil {
			return handleErrorMsg(ErrMissingArgument, err.Error())
		}
		id, err := parseID(raw)
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}

		var body string
		if StdinIsPiped() {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return handleError(ErrIO, err)
			}
			body = string(data)
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		h, err := s.Create(id)
		if err != nil {
			return handleStoreError(err)
		}
		if body != "" {
			h.Entry().SetBody(body)
		}

		if createEdit {
			if _, err := editor.Edit(getConfig(), h.Entry()); err != nil {
				h.Discard()
				return handleError(ErrInternal, err)
			}
		}

		if err := h.Close(); err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"created": id.String()}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Created %s", ui.FilePath(id.String())))
		return nil
	},
}

// createTargetID resolves the new entry's raw ID from the argument or
// the --title/--collection pair.
func createTargetID(args []string) (string, error) {
	if len(args) == 1 {
		if createTitle != "" {
			return "", fmt.Errorf("pass either an ID or --title, not both")
		}
		return args[0], nil
	}
	if createTitle == "" {
		return "", fmt.Errorf("requires an ID argument or --title")
	}
	slugged := slug.Make(createTitle)
	if createCollection != "" {
		return strings.TrimSuffix(createCollection, "/") + "/" + slugged, nil
	}
	return slugged, nil
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "Derive the entry ID from a title")
	createCmd.Flags().StringVar(&createCollection, "collection", "", "Collection prefix for --title")
	createCmd.Flags().BoolVar(&createEdit, "edit", false, "Open the new entry in the editor")
	rootCmd.AddCommand(createCmd)
}
