package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/magpiedev/magpie/docs"
	"github.com/magpiedev/magpie/internal/ui"
)

// docsTopic is one bundled documentation page.
type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Browse the bundled documentation",
	Long: `Browse long-form documentation bundled into the mag binary.

For command-level usage, use 'mag help <command>'.

Examples:
  mag docs
  mag docs linking`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := listDocsTopics(builtindocs.FS)
		if err != nil {
			return handleError(ErrInternal, err)
		}

		if len(args) == 0 {
			if isStructuredOutput() {
				outputSuccess(map[string]interface{}{"topics": topics}, &Meta{Count: len(topics)})
				return nil
			}
			fmt.Println(ui.Header("Topics"))
			tbl := ui.NewTable(2)
			for _, t := range topics {
				tbl.AddRow("  "+ui.FilePath(t.ID), ui.Hint(t.Title))
			}
			fmt.Print(tbl.String())
			fmt.Println()
			fmt.Println(ui.Hint("Read one with: mag docs <topic>"))
			return nil
		}

		topic, ok := findDocsTopic(topics, args[0])
		if !ok {
			return handleErrorMsg(ErrInvalidInput, fmt.Sprintf("no such topic %q, run 'mag docs' for the list", args[0]))
		}
		content, err := fs.ReadFile(builtindocs.FS, topic.Path)
		if err != nil {
			return handleError(ErrInternal, err)
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"topic":   topic.ID,
				"title":   topic.Title,
				"content": string(content),
			}, nil)
			return nil
		}

		display := ui.NewDisplayContext()
		rendered, err := ui.RenderMarkdown(string(content), display.AvailableWidth(ui.MarkdownRenderMargin))
		if err != nil {
			return handleError(ErrInternal, err)
		}
		fmt.Print(rendered)
		return nil
	},
}

// listDocsTopics walks the bundled docs and derives each topic's ID
// from the filename and its title from the first heading.
func listDocsTopics(fsys fs.FS) ([]docsTopic, error) {
	var topics []docsTopic
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(path.Base(p), ".md")
		topics = append(topics, docsTopic{
			ID:    id,
			Title: docsTitle(string(content), id),
			Path:  p,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

// docsTitle extracts the first H1 heading, falling back to the topic ID.
func docsTitle(content, fallback string) string {
	for _, line := range strings.Split(content, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return fallback
}

func findDocsTopic(topics []docsTopic, id string) (docsTopic, bool) {
	for _, t := range topics {
		if t.ID == id {
			return t, true
		}
	}
	return docsTopic{}, false
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
