package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/editor"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/ui"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an entry in your editor",
	Long: `Open an entry in the configured editor (imagrc.toml 'editor'
or $EDITOR) and write it back on save. A buffer that no longer parses
as an entry is rejected and the entry stays untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		var changed bool
		err = withEntry(s, id, func(h *store.Handle) error {
			var err error
			changed, err = editor.Edit(getConfig(), h.Entry())
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":      id.String(),
				"changed": changed,
			}, nil)
			return nil
		}
		if changed {
			fmt.Println(ui.Successf("Updated %s", ui.FilePath(id.String())))
		} else {
			fmt.Println(ui.Infof("No changes to %s", ui.FilePath(id.String())))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
