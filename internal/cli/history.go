package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/lintmux/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded runs",
}

// openStore opens the history store using the configured DSN, honoring the
// LINTMUX_HISTORY_DSN override.
func openStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(history.ResolveDSN(cfg.History.DSN))
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

var historyRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.Recent(limit)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-6s %-20s %-10s %-9s %-7s %-9s %-6s %s\n",
			"ID", "STARTED", "DURATION", "FINDINGS", "ERRORS", "WARNINGS", "INFOS", "DIAGS")
		for _, r := range runs {
			fmt.Fprintf(w, "%-6d %-20s %-10s %-9d %-7d %-9d %-6d %d\n",
				r.ID, r.StartedAt, fmt.Sprintf("%dms", r.DurationMs),
				r.Findings, r.Errors, r.Warnings, r.Infos, r.Diagnostics)
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Per-tool aggregates across all recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.ToolStats()
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}

		fmt.Fprintf(w, "%-12s %-6s %-9s %-12s %s\n",
			"TOOL", "RUNS", "FINDINGS", "AVG MS", "DRIFT RUNS")
		for _, st := range stats {
			fmt.Fprintf(w, "%-12s %-6d %-9d %-12.1f %d\n",
				st.Tool, st.Runs, st.Findings, st.AvgDurationMs, st.DriftRuns)
		}
		return nil
	},
}

func init() {
	historyRecentCmd.Flags().Int("limit", 10, "maximum number of runs to list")

	historyCmd.AddCommand(historyRecentCmd)
	historyCmd.AddCommand(historyStatsCmd)
}
