package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/flags"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
)

var idsWith string

var idsCmd = &cobra.Command{
	Use:   "ids [collection]...",
	Short: "List entry IDs",
	Long: `List the IDs of all entries, one per line, sorted. With
collection arguments only entries under those collections are listed.
--with filters to entries carrying an overlay marker (one of: ` + flagNames() + `).

The output pipes into other commands:
  mag ids notes | mag tag add --stdin archived`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter *flags.Flag
		if idsWith != "" {
			f, err := flags.ByName(idsWith)
			if err != nil {
				return handleError(ErrInvalidInput, err)
			}
			filter = &f
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		it, err := s.Entries()
		if err != nil {
			return handleStoreError(err)
		}
		if len(args) > 0 {
			it = it.InCollection(args...)
		}
		ids := it.Collect()

		if filter != nil {
			ids, err = filterByFlag(s, ids, *filter)
			if err != nil {
				return handleStoreError(err)
			}
		}

		if isStructuredOutput() {
			out := make([]string, 0, len(ids))
			for _, id := range ids {
				out = append(out, id.String())
			}
			outputSuccess(map[string]interface{}{"ids": out}, &Meta{Count: len(out)})
			return nil
		}
		WriteIDs(os.Stdout, ids)
		return nil
	},
}

// filterByFlag keeps the IDs whose entries carry the marker.
func filterByFlag(s *store.Store, ids []storeid.ID, f flags.Flag) ([]storeid.ID, error) {
	var kept []storeid.ID
	for _, id := range ids {
		err := withEntry(s, id, func(h *store.Handle) error {
			if f.Is(h.Entry()) {
				kept = append(kept, id)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return kept, nil
}

func flagNames() string {
	var names []string
	for _, f := range flags.All() {
		names = append(names, f.Name)
	}
	return strings.Join(names, ", ")
}

func init() {
	idsCmd.Flags().StringVar(&idsWith, "with", "", "Only list entries carrying this overlay marker")
	rootCmd.AddCommand(idsCmd)
}
