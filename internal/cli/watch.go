package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/ui"
	"github.com/magpiedev/magpie/internal/watcher"
)

var (
	watchDebounce time.Duration
	watchDebug    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the store and re-verify entries as they change",
	Long: `Watch the store directory and verify every entry as it is
written, reporting entries that no longer parse or violate header
invariants. Useful while editing entries with external tools.

Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := watcher.New(watcher.Config{
			Base:          getRTP(),
			DebounceDelay: watchDebounce,
			Debug:         watchDebug,
			OnEvent:       printWatchEvent,
		})
		if err != nil {
			return handleError(ErrInternal, err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Println(ui.Infof("Watching %s", ui.FilePath(getRTP())))
		if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return handleError(ErrInternal, err)
		}
		return nil
	},
}

func printWatchEvent(ev watcher.Event) {
	switch {
	case ev.Removed:
		fmt.Println(ui.Warningf("removed %s", ui.FilePath(ev.ID.String())))
	case ev.Err != nil:
		fmt.Println(ui.Errorf("%s: %v", ui.FilePath(ev.ID.String()), ev.Err))
	default:
		fmt.Println(ui.Successf("%s", ui.FilePath(ev.ID.String())))
	}
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 100*time.Millisecond, "Delay before re-verifying a changed entry")
	watchCmd.Flags().BoolVar(&watchDebug, "debug", false, "Log watcher internals to stderr")
	rootCmd.AddCommand(watchCmd)
}
