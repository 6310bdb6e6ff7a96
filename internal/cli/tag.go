package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
	"github.com/magpiedev/magpie/internal/tag"
	"github.com/magpiedev/magpie/internal/ui"
)

var tagStdin bool

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage entry tags",
	Long: `Tags are lowercase alphanumeric labels stored in the entry
header. With --stdin the target IDs are read from stdin instead of the
first argument, so tagging composes with 'mag ids'.`,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <id> <tag>... (or --stdin <tag>...)",
	Short: "Add tags to entries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagMutation(args, func(h *store.Handle, tags []string) error {
			for _, t := range tags {
				if err := tag.Add(h.Entry(), t); err != nil {
					return err
				}
			}
			return nil
		}, "Tagged")
	},
}

var tagRemoveCmd = &cobra.Command{
	Use:   "remove <id> <tag>... (or --stdin <tag>...)",
	Short: "Remove tags from entries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagMutation(args, func(h *store.Handle, tags []string) error {
			for _, t := range tags {
				if err := tag.Remove(h.Entry(), t); err != nil {
					return err
				}
			}
			return nil
		}, "Untagged")
	},
}

var tagSetCmd = &cobra.Command{
	Use:   "set <id> <tag>... (or --stdin <tag>...)",
	Short: "Replace the tags of entries",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTagMutation(args, func(h *store.Handle, tags []string) error {
			return tag.Set(h.Entry(), tags)
		}, "Retagged")
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List the tags of an entry",
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

		var tags []string
		err = withEntry(s, id, func(h *store.Handle) error {
			var err error
			tags, err = tag.Get(h.Entry())
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"tags": tags}, &Meta{Count: len(tags)})
			return nil
		}
		for _, t := range tags {
			fmt.Println(t)
		}
		return nil
	},
}

// runTagMutation applies a tag change to one entry (first arg is the
// ID) or to every piped ID when --stdin is set.
func runTagMutation(args []string, fn func(h *store.Handle, tags []string) error, verb string) error {
	var ids []storeid.ID
	var tags []string
	var warnings []Warning

	if tagStdin {
		tags = args
		var invalid []string
		var err error
		ids, invalid, err = ReadIDsFromStdin()
		if err != nil {
			return handleError(ErrIO, err)
		}
		warnings = skippedIDWarnings(invalid)
	} else {
		if len(args) < 2 {
			return handleErrorMsg(ErrMissingArgument, "requires an entry ID and at least one tag")
		}
		id, err := parseID(args[0])
		if err != nil {
			return handleError(ErrIDInvalid, err)
		}
		ids = []storeid.ID{id}
		tags = args[1:]
	}

	s, err := openStore()
	if err != nil {
		return handleOpenStoreError(err)
	}
	defer s.Close()

	for _, id := range ids {
		err := withEntry(s, id, func(h *store.Handle) error {
			return fn(h, tags)
		})
		if err != nil {
			return handleStoreError(err)
		}
	}

	if isStructuredOutput() {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, id.String())
		}
		outputSuccessWithWarnings(map[string]interface{}{
			"entries": out,
			"tags":    tags,
		}, warnings, &Meta{Count: len(out)})
		return nil
	}
	for _, id := range ids {
		fmt.Println(ui.Successf("%s %s", verb, ui.FilePath(id.String())))
	}
	return nil
}

func init() {
	tagCmd.PersistentFlags().BoolVar(&tagStdin, "stdin", false, "Read entry IDs from stdin")
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRemoveCmd)
	tagCmd.AddCommand(tagSetCmd)
	tagCmd.AddCommand(tagListCmd)
	rootCmd.AddCommand(tagCmd)
}
