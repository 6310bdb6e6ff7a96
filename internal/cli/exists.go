package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var existsCmd = &cobra.Command{
	Use:   "exists <id>",
	Short: "Check whether an entry exists",
	Long: `Check whether an entry exists without opening it. Exits 0
when the entry exists and 1 when it does not, so the command works in
shell conditionals.`,
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

		ok, err := s.Exists(id)
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":     id.String(),
				"exists": ok,
			}, nil)
			if !ok {
				return errSilent
			}
			return nil
		}

		if !ok {
			return fmt.Errorf("entry %s does not exist", id)
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(existsCmd)
}
