package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/ui"
)

var (
	viewHeader bool
	viewRender bool
)

var viewCmd = &cobra.Command{
	Use:   "view <id>...",
	Short: "Show entry bodies",
	Long: `Print entry bodies to stdout without creating anything.

With --header the TOML header is printed before each body; with
--render the body is rendered as markdown for the terminal.

IDs can also be piped: mag ids notes | mag view`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, warnings, err := argOrStdinIDs(args)
		if err != nil {
			return handleErrorMsg(ErrMissingArgument, err.Error())
		}

		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		type viewed struct {
			ID     string `json:"id"`
			Header string `json:"header,omitempty"`
			Body   string `json:"body"`
		}
		var out []viewed

		for _, id := range ids {
			h, err := s.Get(id)
			if err != nil {
				return handleStoreError(err)
			}
			if h == nil {
				return handleStoreError(fmt.Errorf("entry %s does not exist: %w", id, apperr.ErrNotFound))
			}
			v := viewed{ID: id.String(), Body: h.Entry().Body()}
			if viewHeader {
				hdr, err := h.Entry().Header.Serialize()
				if err != nil {
					h.Discard()
					return handleStoreError(err)
				}
				v.Header = string(hdr)
			}
			h.Discard()
			out = append(out, v)
		}

		if isStructuredOutput() {
			outputSuccessWithWarnings(map[string]interface{}{"entries": out}, warnings, &Meta{Count: len(out)})
			return nil
		}

		display := ui.NewDisplayContext()
		for i, v := range out {
			if len(out) > 1 {
				if i > 0 {
					fmt.Println()
				}
				fmt.Println(ui.Header(v.ID))
			}
			if v.Header != "" {
				fmt.Print(v.Header)
				fmt.Println("---")
			}
			if viewRender {
				rendered, err := ui.RenderMarkdown(v.Body, display.AvailableWidth(ui.MarkdownRenderMargin))
				if err != nil {
					return handleError(ErrInternal, err)
				}
				fmt.Print(rendered)
			} else {
				fmt.Print(v.Body)
			}
		}
		return nil
	},
}

func init() {
	viewCmd.Flags().BoolVar(&viewHeader, "header", false, "Print the TOML header before the body")
	viewCmd.Flags().BoolVar(&viewRender, "render", false, "Render the body as markdown")
	rootCmd.AddCommand(viewCmd)
}
