package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lucasnoah/lintmux/internal/adapter"
	"github.com/lucasnoah/lintmux/internal/config"
	"github.com/lucasnoah/lintmux/internal/history"
	"github.com/lucasnoah/lintmux/internal/logging"
	"github.com/lucasnoah/lintmux/internal/report"
	"github.com/lucasnoah/lintmux/internal/runner"
)

// ErrFindings is returned by run when findings meet the fail-on threshold.
// The report has already been written by then; main maps it to exit 1.
var ErrFindings = errors.New("findings at or above the fail-on threshold")

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Run the configured tools and report their findings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = cfg.Output.Format
		}
		if format != "text" && format != "json" && format != "sarif" {
			return fmt.Errorf("unrecognized format %q", format)
		}
		failOn, _ := cmd.Flags().GetString("fail-on")
		if failOn == "" {
			failOn = cfg.Output.FailOn
		}
		rawDir, _ := cmd.Flags().GetString("raw-dir")

		log, err := logging.New(debug)
		if err != nil {
			return err
		}
		defer log.Sync()

		paths := args
		if len(paths) == 0 {
			paths = []string{"."}
		}

		table := adapter.NewTable()
		run := runner.New(&runner.ExecRunner{}, table, log)

		var toolCfgs []runner.ToolConfig
		for _, name := range table.Names() {
			if !cfg.Enabled(name) {
				continue
			}
			tc := cfg.Tools[name]
			timeout, _ := tc.TimeoutDuration()
			toolCfgs = append(toolCfgs, runner.ToolConfig{
				Name:          name,
				Command:       tc.Command,
				Args:          tc.Args,
				Timeout:       timeout,
				Disable:       tc.Disable,
				MaxComplexity: tc.MaxComplexity,
				MinConfidence: tc.MinConfidence,
			})
		}

		started := time.Now()
		results := run.RunAll(cmd.Context(), ".", toolCfgs, paths)
		durationMs := int(time.Since(started).Milliseconds())

		if rawDir != "" {
			saveRawOutputs(log, rawDir, results)
		}

		w := cmd.OutOrStdout()
		switch format {
		case "json":
			err = report.WriteJSON(w, results)
		case "sarif":
			err = report.WriteSARIF(w, results, version)
		default:
			err = report.WriteText(w, results)
		}
		if err != nil {
			return err
		}

		if cfg.HistoryEnabled() {
			logHistory(log, cfg, started, durationMs, results)
		}

		if report.ShouldFail(results, failOn) {
			return ErrFindings
		}
		return nil
	},
}

// saveRawOutputs writes each tool's captured output under dir for later
// replay through the parse command. Failures are logged, never fatal.
func saveRawOutputs(log *zap.SugaredLogger, dir string, results []runner.ToolResult) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warnw("create raw output dir", "dir", dir, "error", err)
		return
	}
	for _, r := range results {
		_ = os.WriteFile(filepath.Join(dir, r.Tool+".stdout.txt"), []byte(r.Stdout), 0o644)
		_ = os.WriteFile(filepath.Join(dir, r.Tool+".stderr.txt"), []byte(r.Stderr), 0o644)

		resultJSON, err := json.MarshalIndent(r, "", "  ")
		if err == nil {
			_ = os.WriteFile(filepath.Join(dir, r.Tool+".result.json"), resultJSON, 0o644)
		}
	}
}

// logHistory records the run in the history store. History failures are
// warnings; the run's outcome never depends on the store.
func logHistory(log *zap.SugaredLogger, cfg *config.Config, started time.Time, durationMs int, results []runner.ToolResult) {
	store, err := history.Open(history.ResolveDSN(cfg.History.DSN))
	if err != nil {
		log.Warnw("open history store", "error", err)
		return
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Warnw("migrate history store", "error", err)
		return
	}
	if _, err := store.LogRun(started, durationMs, report.Summarize(results)); err != nil {
		log.Warnw("log run history", "error", err)
	}
}

func init() {
	runCmd.Flags().String("format", "", "report format: text, json, or sarif (default from config)")
	runCmd.Flags().String("fail-on", "", "lowest severity that fails the run: error, warning, info, or none (default from config)")
	runCmd.Flags().String("raw-dir", "", "directory to save each tool's raw output in")
}
