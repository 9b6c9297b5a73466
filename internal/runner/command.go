package runner

import (
	"fmt"
	"strings"
)

// defaultCommands invoke each tool with the flags its adapter's parser
// expects. The mypy flags pin down machine-readable output; mypy still
// prints syntax errors in text form, which the adapter handles.
var defaultCommands = map[string]string{
	"mypy":        "mypy --output=json --show-column-numbers --no-error-summary --no-color-output --show-error-codes --follow-imports=normal",
	"complexipy":  "complexipy --output-json --quiet",
	"interrogate": "interrogate -vv",
	"vulture":     "vulture",
}

// DefaultCommand returns the stock invocation for a tool, or "" for an
// unknown name.
func DefaultCommand(tool string) string {
	return defaultCommands[tool]
}

// BuildCommand assembles the shell command for one tool run: the configured
// or default base command, tool options, extra args, then the target paths.
func BuildCommand(cfg ToolConfig, paths []string) string {
	base := cfg.Command
	if base == "" {
		base = defaultCommands[cfg.Name]
	}

	parts := []string{base}
	if cfg.Name == "mypy" {
		// mypy can suppress codes itself; other tools are filtered
		// after parsing.
		for _, code := range cfg.Disable {
			parts = append(parts, fmt.Sprintf("--disable-error-code %s", code))
		}
	}
	if cfg.Name == "complexipy" && cfg.MaxComplexity > 0 {
		parts = append(parts, fmt.Sprintf("--max-complexity %d", cfg.MaxComplexity))
	}
	if cfg.Name == "vulture" && cfg.MinConfidence > 0 {
		parts = append(parts, fmt.Sprintf("--min-confidence %d", cfg.MinConfidence))
	}
	parts = append(parts, cfg.Args...)
	parts = append(parts, paths...)
	return strings.Join(parts, " ")
}
