package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/dates"
	"github.com/magpiedev/magpie/internal/datetime"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/ui"
)

var datetimeCmd = &cobra.Command{
	Use:   "datetime",
	Short: "Manage entry timestamps",
	Long: `An entry can carry a single point in time or a start/end range,
stored in the header as RFC3339. Dates accept YYYY-MM-DD, RFC3339, or
the keywords now/today/yesterday/tomorrow.`,
}

var datetimeSetCmd = &cobra.Command{
	Use:   "set <id> [datetime]",
	Short: "Stamp an entry with a point in time",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 2 {
			arg = args[1]
		}
		stamp, err := dates.ParseArg(arg, time.Now())
		if err != nil {
			return handleError(ErrInvalidInput, err)
		}
		return runDatetimeMutation(args[0], "Stamped", func(h *store.Handle) error {
			return datetime.Set(h.Entry(), stamp)
		})
	},
}

var datetimeRangeCmd = &cobra.Command{
	Use:   "range <id> <start> <end>",
	Short: "Stamp an entry with a time range",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		start, err := dates.ParseArg(args[1], now)
		if err != nil {
			return handleError(ErrInvalidInput, err)
		}
		end, err := dates.ParseArg(args[2], now)
		if err != nil {
			return handleError(ErrInvalidInput, err)
		}
		return runDatetimeMutation(args[0], "Stamped", func(h *store.Handle) error {
			return datetime.SetRange(h.Entry(), start, end)
		})
	},
}

var datetimeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show the timestamp of an entry",
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

		var value time.Time
		var start, end time.Time
		var hasValue, hasRange bool
		err = withEntry(s, id, func(h *store.Handle) error {
			var err error
			value, hasValue, err = datetime.Get(h.Entry())
			if err != nil {
				return err
			}
			start, end, hasRange, err = datetime.GetRange(h.Entry())
			return err
		})
		if err != nil {
			return handleStoreError(err)
		}

		if isStructuredOutput() {
			data := map[string]interface{}{"id": id.String()}
			if hasValue {
				data["datetime"] = value.Format(dates.Format)
			}
			if hasRange {
				data["start"] = start.Format(dates.Format)
				data["end"] = end.Format(dates.Format)
			}
			outputSuccess(data, nil)
			return nil
		}
		switch {
		case hasValue:
			fmt.Println(value.Format(dates.Format))
		case hasRange:
			fmt.Printf("%s .. %s\n", start.Format(dates.Format), end.Format(dates.Format))
		default:
			fmt.Println(ui.Hint("(no timestamp)"))
		}
		return nil
	},
}

var datetimeRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Strip the timestamp from an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDatetimeMutation(args[0], "Unstamped", func(h *store.Handle) error {
			datetime.Remove(h.Entry())
			return nil
		})
	},
}

func runDatetimeMutation(rawID, verb string, fn func(h *store.Handle) error) error {
	id, err := parseID(rawID)
	if err != nil {
		return handleError(ErrIDInvalid, err)
	}

	s, err := openStore()
	if err != nil {
		return handleOpenStoreError(err)
	}
	defer s.Close()

	if err := withEntry(s, id, fn); err != nil {
		return handleStoreError(err)
	}

	if isStructuredOutput() {
		outputSuccess(map[string]interface{}{"id": id.String()}, nil)
		return nil
	}
	fmt.Println(ui.Successf("%s %s", verb, ui.FilePath(id.String())))
	return nil
}

func init() {
	datetimeCmd.AddCommand(datetimeSetCmd)
	datetimeCmd.AddCommand(datetimeRangeCmd)
	datetimeCmd.AddCommand(datetimeGetCmd)
	datetimeCmd.AddCommand(datetimeRemoveCmd)
	rootCmd.AddCommand(datetimeCmd)
}
