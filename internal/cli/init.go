package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/magpiedev/magpie/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a new store",
	Long: `Creates a new store at the given path (default: the resolved
runtimepath) with a default imagrc.toml beside it.

Creates:
  - <path>/         (the store base directory)
  - ../imagrc.toml  (configuration, if not already present)`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveRTP()
		if len(args) == 1 {
			path = args[0]
		}

		if err := os.MkdirAll(path, 0755); err != nil {
			return handleError(ErrIO, fmt.Errorf("failed to create store directory: %w", err))
		}

		configFile := filepath.Join(filepath.Dir(path), "imagrc.toml")
		configStatus := "exists"
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			if err := os.WriteFile(configFile, []byte(defaultConfigTOML), 0644); err != nil {
				return handleError(ErrIO, fmt.Errorf("failed to write config: %w", err))
			}
			configStatus = "created"
		}

		if isStructuredOutput() {
			outputSuccess(map[string]interface{}{
				"store":  path,
				"config": configFile,
			}, nil)
			return nil
		}

		fmt.Println(ui.Successf("Initialized store at %s", ui.FilePath(path)))
		fmt.Printf("  config: %s (%s)\n", configFile, configStatus)
		return nil
	},
}

const defaultConfigTOML = `# Magpie configuration.

# Editor for 'mag edit'. Falls back to $EDITOR when empty.
editor = ""

[ui]
# Accent color: ANSI 256 code ("0"-"255") or hex ("#RRGGBB").
accent = ""

[ref.hashers]
default = "sha256"

# Named base directories for external file references.
[ref.basepaths]
# music = "/home/user/music"
`

func init() {
	rootCmd.AddCommand(initCmd)
}
