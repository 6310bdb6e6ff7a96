package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/ref"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
	"github.com/magpiedev/magpie/internal/ui"
)

var (
	refCollection string
	refHasher     string
	refForce      bool
)

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Manage external file references",
	Long: `A ref points an entry at a file outside the store, identified
by its path below a named basepath and its content hash. The file
itself is never copied; 'mag ref check' detects when it changed.

Basepaths are configured in imagrc.toml under [ref.basepaths].`,
}

var refAddCmd = &cobra.Command{
	Use:   "add <id> <file>",
	Short: "Turn an entry into a reference to an external file",
	Args:  cobra.ExactArgs(2),
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

		var made *ref.Ref
		err = withEntry(s, id, func(h *store.Handle) error {
			if err := ref.MakeRef(h.Entry(), args[1], refCollection, getConfig(), refHasher, refForce); err != nil {
				return err
			}
			var err error
			made, err = ref.Get(h.Entry())
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":         id.String(),
				"collection": made.Collection,
				"relpath":    made.Relpath,
				"hasher":     made.Hasher,
				"hash":       made.Hash,
			}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Referenced %s from %s", args[1], ui.FilePath(id.String())))
		fmt.Printf("  %s: %s\n", made.Hasher, ui.Hint(made.Hash))
		return nil
	},
}

var refPathCmd = &cobra.Command{
	Use:   "path <id>",
	Short: "Print the file path a ref points at",
	Args:  cobra.ExactArgs(1),
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

		var path string
		err = withEntry(s, id, func(h *store.Handle) error {
			var err error
			path, err = ref.Path(h.Entry(), getConfig())
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"id":   id.String(),
				"path": path,
			}, nil)
			return nil
		}
		fmt.Println(path)
		return nil
	},
}

var refCheckCmd = &cobra.Command{
	Use:   "check <id>...",
	Short: "Check refs against the referenced files",
	Long: `Re-hash the referenced files and compare against the stored
hashes. IDs can be piped; without arguments every ref entry is checked.

Exit codes: 0 when all match, 2 when a file changed or went missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		ids, warnings, err := refTargets(s, args)
		if err != nil {
			return handleStoreError(err)
		}

		type checked struct {
			ID     string `json:"id"`
			Result string `json:"result"`
		}
		var results []checked
		dirty := false

		var progress *ui.Progress
		if !isStructuredOutput() {
			progress = ui.NewProgress("Hashing referenced files", len(ids))
		}

		for _, id := range ids {
			var res ref.CheckResult
			err := withEntry(s, id, func(h *store.Handle) error {
				var err error
				res, err = ref.Check(h.Entry(), getConfig())
				return err
			})
			if err != nil {
				if progress != nil {
					progress.Done()
				}
				return handleStoreError(err)
			}
			if res != ref.Match {
				dirty = true
			}
			results = append(results, checked{ID: id.String(), Result: res.String()})
			if progress != nil {
				progress.Increment()
			}
		}
		if progress != nil {
			progress.Done()
		}

		if isStructuredOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"checked": results,
				"ok":      !dirty,
			}, warnings, &Meta{Count: len(results)})
			if dirty {
				return ErrProblems
			}
			return nil
		}

		tbl := ui.NewTable(2)
		for _, r := range results {
			switch r.Result {
			case "match":
				tbl.AddRow(ui.FilePath(r.ID), ui.Success(r.Result))
			default:
				tbl.AddRow(ui.FilePath(r.ID), ui.Error(r.Result))
			}
		}
		fmt.Print(tbl.String())
		if dirty {
			return ErrProblems
		}
		return nil
	},
}

var refUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Re-hash the referenced file and store the new hash",
	Args:  cobra.ExactArgs(1),
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

		err = withEntry(s, id, func(h *store.Handle) error {
			return ref.Update(h.Entry(), getConfig())
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"updated": id.String()}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated ref hash of %s", ui.FilePath(id.String())))
		return nil
	},
}

var refRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove the ref from an entry",
	Args:  cobra.ExactArgs(1),
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

		err = withEntry(s, id, func(h *store.Handle) error {
			ref.Remove(h.Entry())
			return nil
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"removed": id.String()}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Removed ref from %s", ui.FilePath(id.String())))
		return nil
	},
}

// refTargets resolves the IDs for ref check: arguments, piped stdin, or
// every ref-carrying entry in the store.
func refTargets(s *store.Store, args []string) (ids []storeid.ID, warnings []Warning, err error) {
	if len(args) > 0 {
		for _, raw := range args {
			id, err := parseID(raw)
			if err != nil {
				return nil, nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil, nil
	}
	if StdinIsPiped() {
		var invalid []string
		ids, invalid, err = ReadIDsFromStdin()
		if err != nil {
			return nil, nil, err
		}
		return ids, skippedIDWarnings(invalid), nil
	}

	it, err := s.Entries()
	if err != nil {
		return nil, nil, err
	}
	for {
		id, ok := it.Next()
		if !ok {
			return ids, nil, nil
		}
		h, err := s.Get(id)
		if err != nil {
			return nil, nil, err
		}
		if h == nil {
			continue
		}
		isRef := ref.IsRef(h.Entry())
		h.Discard()
		if isRef {
			ids = append(ids, id)
		}
	}
}

func init() {
	refAddCmd.Flags().StringVar(&refCollection, "collection", "", "Basepath name from imagrc.toml (required)")
	refAddCmd.Flags().StringVar(&refHasher, "hasher", "", "Content hasher (default from config)")
	refAddCmd.Flags().BoolVar(&refForce, "force", false, "Overwrite an existing ref")
	_ = refAddCmd.MarkFlagRequired("collection")
	refCmd.AddCommand(refAddCmd)
	refCmd.AddCommand(refPathCmd)
	refCmd.AddCommand(refCheckCmd)
	refCmd.AddCommand(refUpdateCmd)
	refCmd.AddCommand(refRemoveCmd)
	rootCmd.AddCommand(refCmd)
}
