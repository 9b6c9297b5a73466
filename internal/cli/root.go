package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lucasnoah/lintmux/internal/config"
)

var version = "dev"

func SetVersion(v string) {
	version = v
}

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "lintmux",
	Short: "lintmux — one front end for the Python analysis tools",
	Long: `lintmux runs mypy, complexipy, interrogate, and vulture over a Python
codebase, normalizes their output into a single finding stream, and reports
it as text, JSON, or SARIF.

A tool changing its output schema surfaces as a drift diagnostic instead of
a crash, and lines the parsers cannot place are accounted for instead of
silently dropped.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(".env"); err == nil {
			if err := godotenv.Load(".env"); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

// loadConfig loads the --config file, or searches the default locations,
// and rejects invalid settings before any tool runs.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: .lintmux.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
