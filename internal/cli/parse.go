package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/lintmux/internal/adapter"
	"github.com/lucasnoah/lintmux/internal/report"
	"github.com/lucasnoah/lintmux/internal/runner"
)

var parseCmd = &cobra.Command{
	Use:   "parse <tool> [file]",
	Short: "Parse captured tool output without running anything",
	Long: `parse feeds a file (or stdin) through a tool's adapter and prints the
findings and diagnostics. Useful for replaying output saved with
run --raw-dir, or for checking how an unfamiliar blob of output decodes.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		table := adapter.NewTable()
		a, ok := table.Get(name)
		if !ok {
			return fmt.Errorf("no adapter for tool %q (known: %s)", name, strings.Join(table.Names(), ", "))
		}

		var (
			raw []byte
			err error
		)
		if len(args) == 2 {
			raw, err = os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
		} else {
			raw, err = io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
		}

		structured := a.Structured()
		if cmd.Flags().Changed("structured") {
			structured, _ = cmd.Flags().GetBool("structured")
		}

		findings, diags := a.Parse(string(raw), structured)
		result := runner.ToolResult{Tool: name, Findings: findings, Diagnostics: diags}

		format, _ := cmd.Flags().GetString("format")
		if format == "json" {
			return report.WriteJSON(cmd.OutOrStdout(), []runner.ToolResult{result})
		}
		return report.WriteText(cmd.OutOrStdout(), []runner.ToolResult{result})
	},
}

func init() {
	parseCmd.Flags().Bool("structured", false, "treat the input as the tool's structured output (default: the adapter's own setting)")
	parseCmd.Flags().String("format", "text", "output format: text or json")
}
