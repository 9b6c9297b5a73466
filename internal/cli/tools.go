package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/lintmux/internal/adapter"
	"github.com/lucasnoah/lintmux/internal/runner"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the supported tools, their input kind, and schema baselines",
	Run: func(cmd *cobra.Command, args []string) {
		table := adapter.NewTable()
		w := cmd.OutOrStdout()

		fmt.Fprintf(w, "%-12s %-6s %-18s %s\n", "TOOL", "INPUT", "BASELINE", "DEFAULT COMMAND")
		for _, name := range table.Names() {
			a, _ := table.Get(name)
			input := "text"
			if a.Structured() {
				input = "json"
			}
			baseline := "-"
			if fp, ok := table.Validator().Expected(name); ok {
				baseline = string(fp)
			}
			fmt.Fprintf(w, "%-12s %-6s %-18s %s\n", name, input, baseline, runner.DefaultCommand(name))
		}
	},
}
