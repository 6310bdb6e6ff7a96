package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/link"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
	"github.com/magpiedev/magpie/internal/ui"
)

var (
	deleteForce  bool
	deleteUnlink bool
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete entries from the store",
	Long: `Delete entries by ID. Deletion is permanent; the entry file
is removed from the store.

With --unlink, links from other entries to the deleted entry are
removed first so no half-edges are left behind.

The command asks for confirmation unless --force is used or output is
structured. IDs can also be piped:
  mag ids scratch | mag delete --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, warnings, err := argOrStdinIDs(args)
		if err != nil {
			return handleErrorMsg(ErrMissingArgument, err.Error())
		}

		if !isStructuredOutput() && !deleteForce {
			if !confirmDeletion(ids) {
				fmt.Fprintln(os.Stderr, "Cancelled.")
				return nil
			}
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		var deleted []string
		for _, id := range ids {
			if deleteUnlink {
				err := withEntry(s, id, func(h *store.Handle) error {
					return link.UnlinkAll(s, h)
				})
				if err != nil {
					return handleStoreError(err)
				}
			}
			if err := s.Delete(id); err != nil {
				return handleStoreError(err)
			}
			deleted = append(deleted, id.String())
		}

		if isStructuredOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"deleted": deleted}, warnings, &Meta{Count: len(deleted)})
			return nil
		}
		for _, id := range deleted {
			fmt.Println(ui.Successf("Deleted %s", ui.FilePath(id)))
		}
		return nil
	},
}

func confirmDeletion(ids []storeid.ID) bool {
	if len(ids) == 1 {
		fmt.Fprintf(os.Stderr, "Delete %s? [y/N]: ", ids[0])
	} else {
		fmt.Fprintf(os.Stderr, "Delete %d entries? [y/N]: ", len(ids))
	}
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteForce, "force", false, "Skip confirmation prompt")
	deleteCmd.Flags().BoolVar(&deleteUnlink, "unlink", false, "Remove links to the entry before deleting")
	rootCmd.AddCommand(deleteCmd)
}
