package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve <id>",
	Short: "Print an entry, creating it when absent",
	Long: `Print the full entry (header and body) to stdout. An entry
that does not exist yet is created empty first, so retrieve always
succeeds on a valid ID.

Use 'mag view' to read without creating.`,
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

		h, err := s.Retrieve(id)
		if err != nil {
			return handleStoreError(err)
		}
		raw, err := h.Entry().Bytes()
		if err != nil {
			h.Discard()
			return handleStoreError(err)
		}
		if err := h.Close(); err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":    id.String(),
				"entry": string(raw),
			}, nil)
			return nil
		}
		fmt.Print(string(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(retrieveCmd)
}
