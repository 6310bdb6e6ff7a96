package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/link"
	"github.com/magpiedev/magpie/internal/ui"
)

// ErrProblems is returned when verification finds problems; main maps
// it to exit code 2 so scripts can tell "broken store" from "command
// failed".
var ErrProblems = errors.New("verification found problems")

var (
	verifyLinksOnly   bool
	verifyEntriesOnly bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify every entry and the link graph",
	Long: `Check every entry header (version stamp, link shape, ref
shape) and the symmetry of the link graph.

Exit codes: 0 when clean, 2 when problems were found, 1 on failure.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return handleOpenStoreError(err)
		}
		defer s.Close()

		type problem struct {
			ID      string `json:"id"`
			Kind    string `json:"kind"`
			Message string `json:"message"`
		}
		var problems []problem
		checked := 0

		var sp *ui.Spinner
		if !isStructuredOutput() {
			sp = ui.NewSpinner("Verifying store")
			sp.Start()
		}
		stopSpinner := func() {
			if sp != nil {
				sp.Stop()
				sp = nil
			}
		}
		defer stopSpinner()

		if !verifyLinksOnly {
			report, err := s.Verify()
			if err != nil {
				return handleStoreError(err)
			}
			checked = report.Checked
			for _, p := range report.Problems {
				problems = append(problems, problem{
					ID:      p.ID.String(),
					Kind:    "entry",
					Message: p.Err.Error(),
				})
			}
		}

		if !verifyEntriesOnly {
			broken, err := link.StoreCheck(s)
			if err != nil {
				return handleStoreError(err)
			}
			for _, b := range broken {
				problems = append(problems, problem{
					ID:      b.From.String(),
					Kind:    "link",
					Message: b.String(),
				})
			}
		}

		stopSpinner()

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"checked":  checked,
				"problems": problems,
				"ok":       len(problems) == 0,
			}, &Meta{Count: len(problems)})
			if len(problems) > 0 {
				return ErrProblems
			}
			return nil
		}

		if len(problems) == 0 {
			fmt.Println(ui.Successf("Verified %d entries, no problems", checked))
			return nil
		}
		fmt.Println(ui.Errorf("Verification failed %s", ui.Count(len(problems), "problem", "problems")))
		tbl := ui.NewResultsTable(ui.NewDisplayContext(), ui.ProblemLayout)
		for _, p := range problems {
			tbl.AddRow(p.Kind, p.ID, ui.TruncateWithEllipsis(p.Message, 160))
		}
		fmt.Println(tbl.Render())
		return ErrProblems
	},
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyLinksOnly, "links", false, "Only check link graph symmetry")
	verifyCmd.Flags().BoolVar(&verifyEntriesOnly, "entries", false, "Only check entry headers")
	rootCmd.AddCommand(verifyCmd)
}
