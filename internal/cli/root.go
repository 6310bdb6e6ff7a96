// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/magpiedev/magpie/internal/config"
	"github.com/magpiedev/magpie/internal/ui"
)

var (
	// Global flags
	rtpFlag    string // Explicit runtimepath (store base directory)
	configPath string

	// Resolved values
	resolvedRTP string
	cfg         *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mag",
	Short: "Magpie - a file-backed personal information store",
	Long: `Magpie keeps personal information as plain-text entries, one file per
entry, each carrying a TOML header and a free-form body. Entries link to
each other, carry tags and categories, and can reference external files
by content hash.

Named for the magpie's habit of collecting whatever catches its eye.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateOutputFormat(); err != nil {
			return err
		}

		// Skip store resolution for commands that don't need it
		switch cmd.Name() {
		case "init", "completion", "help", "version", "docs":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		resolvedRTP = resolveRTP()

		var err error
		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load(resolvedRTP)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		if _, err := os.Stat(resolvedRTP); os.IsNotExist(err) {
			return fmt.Errorf("store not found: %s\n\nRun 'mag init %s' to create it", resolvedRTP, resolvedRTP)
		}

		return nil
	},
}

// Execute runs the CLI. Errors are returned to main for rendering and
// exit-code mapping rather than printed by Cobra.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rtpFlag, "rtp", "", "Runtimepath: the store base directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to imagrc.toml (default: beside the store)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json or yaml")

	// --runtimepath is the long form of --rtp
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == "runtimepath" {
			name = "rtp"
		}
		return pflag.NormalizedName(name)
	})
}

// resolveRTP resolves the store base directory:
// explicit flag > $IMAG_RTP > ~/.imag/store.
func resolveRTP() string {
	if rtpFlag != "" {
		return rtpFlag
	}
	if env := os.Getenv("IMAG_RTP"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".imag/store"
	}
	return filepath.Join(home, ".imag", "store")
}

// getRTP returns the resolved store base directory.
func getRTP() string {
	return resolvedRTP
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}
