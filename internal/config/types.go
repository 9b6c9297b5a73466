package config

import "time"

// Config is the top-level lintmux configuration.
type Config struct {
	Tools   map[string]Tool `yaml:"tools"`
	Output  Output          `yaml:"output"`
	History History         `yaml:"history"`
}

// Tool holds the per-tool settings. Zero values mean "use the built-in
// default"; run must be explicitly false to switch a tool off.
type Tool struct {
	Run           *bool    `yaml:"run"`
	Command       string   `yaml:"command"`
	Args          []string `yaml:"args"`
	Timeout       string   `yaml:"timeout"`
	Disable       []string `yaml:"disable"`
	MaxComplexity int      `yaml:"max_complexity"`
	MinConfidence int      `yaml:"min_confidence"`
}

// Output controls how findings are reported and when the run fails.
type Output struct {
	Format string `yaml:"format"`
	FailOn string `yaml:"fail_on"`
}

// History configures the run log store. An empty DSN means the default
// local SQLite database.
type History struct {
	Enabled *bool  `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// Enabled reports whether a tool should run. Tools are on unless the
// config switches them off.
func (c *Config) Enabled(name string) bool {
	t, ok := c.Tools[name]
	if !ok {
		return true
	}
	return t.Run == nil || *t.Run
}

// HistoryEnabled reports whether run logging is on. It defaults to on.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// TimeoutDuration parses the tool's timeout string; zero means unset.
func (t Tool) TimeoutDuration() (time.Duration, error) {
	if t.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(t.Timeout)
}
