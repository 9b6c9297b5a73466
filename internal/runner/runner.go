// Package runner executes the configured analysis tools and routes their
// output through the adapter table. One tool failing to run, timing out, or
// printing garbage never prevents the other tools from completing.
package runner

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lucasnoah/lintmux/internal/adapter"
	"github.com/lucasnoah/lintmux/internal/finding"
)

// ToolConfig mirrors config.Tool with the fields the runner needs.
type ToolConfig struct {
	Name          string
	Command       string
	Args          []string
	Timeout       time.Duration
	Disable       []string
	MaxComplexity int
	MinConfidence int
}

// ToolResult holds the structured outcome of one tool run.
type ToolResult struct {
	Tool        string               `json:"tool"`
	ExitCode    int                  `json:"exit_code"`
	DurationMs  int                  `json:"duration_ms"`
	Findings    []finding.Finding    `json:"findings"`
	Diagnostics []finding.Diagnostic `json:"diagnostics"`
	Stdout      string               `json:"stdout,omitempty"`
	Stderr      string               `json:"stderr,omitempty"`
	Err         string               `json:"error,omitempty"`
}

// CommandRunner abstracts command execution for testability.
type CommandRunner interface {
	Run(ctx context.Context, dir string, command string) (stdout string, stderr string, exitCode int, err error)
}

// ExecRunner implements CommandRunner by shelling out.
type ExecRunner struct{}

func (e *ExecRunner) Run(ctx context.Context, dir string, command string) (string, string, int, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir

	var stdoutBuf, stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return stdoutBuf.String(), stderrBuf.String(), -1, fmt.Errorf("exec: %w", err)
		}
	}
	return stdoutBuf.String(), stderrBuf.String(), exitCode, nil
}

// Runner executes tools and parses their output.
type Runner struct {
	cmd      CommandRunner
	adapters *adapter.Table
	log      *zap.SugaredLogger
}

// New creates a Runner with the given command runner and adapter table.
func New(cmd CommandRunner, adapters *adapter.Table, log *zap.SugaredLogger) *Runner {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Runner{cmd: cmd, adapters: adapters, log: log}
}

// RunAll runs the given tools against paths under dir in parallel and
// returns one result per tool, in the order the tools were given.
func (r *Runner) RunAll(ctx context.Context, dir string, tools []ToolConfig, paths []string) []ToolResult {
	results := make([]ToolResult, len(tools))
	g, ctx := errgroup.WithContext(ctx)
	for i, cfg := range tools {
		g.Go(func() error {
			results[i] = r.runTool(ctx, dir, cfg, paths)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// runTool executes one tool and normalizes whatever it printed. Partial
// output from a timed-out process is still parsed.
func (r *Runner) runTool(ctx context.Context, dir string, cfg ToolConfig, paths []string) ToolResult {
	result := ToolResult{Tool: cfg.Name}

	a, ok := r.adapters.Get(cfg.Name)
	if !ok {
		result.Err = fmt.Sprintf("no adapter for tool %q", cfg.Name)
		return result
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	command := BuildCommand(cfg, paths)
	r.log.Debugw("running tool", "tool", cfg.Name, "command", command)

	start := time.Now()
	stdout, stderr, exitCode, err := r.cmd.Run(ctx, dir, command)
	result.DurationMs = int(time.Since(start).Milliseconds())
	result.ExitCode = exitCode
	result.Stdout = stdout
	result.Stderr = stderr

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.Err = fmt.Sprintf("timeout after %s", timeout)
		} else {
			result.Err = err.Error()
		}
		r.log.Warnw("tool did not finish", "tool", cfg.Name, "error", result.Err)
	}

	findings, diags := a.Parse(stdout, a.Structured())
	findings = append(findings, a.ParseStderr(stderr)...)
	result.Findings = filterDisabled(findings, cfg.Disable)
	result.Diagnostics = diags

	r.log.Debugw("tool finished",
		"tool", cfg.Name,
		"exit_code", exitCode,
		"findings", len(result.Findings),
		"diagnostics", len(result.Diagnostics),
		"duration_ms", result.DurationMs,
	)
	return result
}

// filterDisabled drops findings whose code the user switched off.
func filterDisabled(findings []finding.Finding, disable []string) []finding.Finding {
	if len(disable) == 0 {
		return findings
	}
	disabled := make(map[string]bool, len(disable))
	for _, code := range disable {
		disabled[code] = true
	}
	kept := findings[:0]
	for _, f := range findings {
		if !disabled[f.Code] {
			kept = append(kept, f)
		}
	}
	return kept
}
