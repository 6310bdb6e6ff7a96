package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/link"
	"github.com/magpiedev/magpie/internal/ui"
)

var moveNoRelink bool

var moveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move an entry to a new ID",
	Long: `Move an entry to a new ID, rewriting links in other entries
that point at the old ID so the link graph stays symmetric.

Use --no-relink to move the file only and leave back-links untouched
(they will show up in 'mag verify --links' as broken).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseID(args[0])
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}
		to, err := parseID(args[1])
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		if err := s.MoveByID(from, to); err != nil {
			return handleStoreError(err)
		}
		if !moveNoRelink {
			if err := link.Relink(s, from, to); err != nil {
				return handleStoreError(err)
			}
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"from":     from.String(),
				"to":       to.String(),
				"relinked": !moveNoRelink,
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Moved %s -> %s", ui.FilePath(from.String()), ui.FilePath(to.String())))
		return nil
	},
}

func init() {
	moveCmd.Flags().BoolVar(&moveNoRelink, "no-relink", false, "Do not rewrite links pointing at the old ID")
	rootCmd.AddCommand(moveCmd)
}
