package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/link"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/ui"
)

var linkNote string

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Manage links between entries",
	Long: `Links are symmetric: linking A to B records the edge in both
entries, and removing it removes both halves.`,
}

var linkAddCmd = &cobra.Command{
	Use:   "add <from> <to>",
	Short: "Link two entries",
	Long: `Link two entries. With --note the edge from <from> carries an
annotation; the mirror half in <to> stays plain.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLinkEdge(args, func(s *store.Store, a, b *store.Handle) error {
			if linkNote != "" {
				return link.AddAnnotated(a.Entry(), b.Entry(), linkNote)
			}
			return link.Add(a.Entry(), b.Entry())
		}, "Linked")
	},
}

var linkRemoveCmd = &cobra.Command{
	Use:   "remove <from> <to>",
	Short: "Remove the link between two entries",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLinkEdge(args, func(s *store.Store, a, b *store.Handle) error {
			return link.Remove(a.Entry(), b.Entry())
		}, "Unlinked")
	},
}

var linkListCmd = &cobra.Command{
	Use:   "list <id>",
	Short: "List an entry's links",
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

		var links []link.Link
		err = withEntry(s, id, func(h *store.Handle) error {
			var err error
			links, err = link.Links(h.Entry())
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			type edge struct {
				Target string `json:"target"`
				Note   string `json:"note,omitempty"`
			}
			out := make([]edge, 0, len(links))
			for _, l := range links {
				out = append(out, edge{Target: l.Target.String(), Note: l.Note})
			}
			outputSuccess(map[string]interface{}{"links": out}, &Meta{Count: len(out)})
			return nil
		}
		for _, l := range links {
			if l.Annotated() {
				fmt.Printf("%s %s\n", ui.FilePath(l.Target.String()), ui.Hint("("+l.Note+")"))
			} else {
				fmt.Println(ui.FilePath(l.Target.String()))
			}
		}
		return nil
	},
}

var linkUnlinkCmd = &cobra.Command{
	Use:   "unlink <id>",
	Short: "Remove every link of an entry",
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
			return link.UnlinkAll(s, h)
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{"unlinked": id.String()}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Removed all links of %s", ui.FilePath(id.String())))
		return nil
	},
}

// runLinkEdge opens both ends of an edge and applies op.
func runLinkEdge(args []string, op func(s *store.Store, a, b *store.Handle) error, verb string) error {
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

	err = withEntry(s, from, func(a *store.Handle) error {
		return withEntry(s, to, func(b *store.Handle) error {
			return op(s, a, b)
		})
	})
	if err != nil {
		return handleStoreError(err)
	}

	if isStructuredOutput() {
		outputSuccess(map[string]interface{}{
			"from": from.String(),
			"to":   to.String(),
		}, nil)
		return nil
	}
	fmt.Println(ui.Successf("%s %s <-> %s", verb, ui.FilePath(from.String()), ui.FilePath(to.String())))
	return nil
}

func init() {
	linkAddCmd.Flags().StringVar(&linkNote, "note", "", "Annotate the link")
	linkCmd.AddCommand(linkAddCmd)
	linkCmd.AddCommand(linkRemoveCmd)
	linkCmd.AddCommand(linkListCmd)
	linkCmd.AddCommand(linkUnlinkCmd)
	rootCmd.AddCommand(linkCmd)
}
