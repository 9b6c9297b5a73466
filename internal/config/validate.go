package config

import "fmt"

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// knownTools is the set of tools lintmux has adapters for.
var knownTools = map[string]bool{
	"mypy":        true,
	"complexipy":  true,
	"interrogate": true,
	"vulture":     true,
}

var knownFormats = map[string]bool{
	"text":  true,
	"json":  true,
	"sarif": true,
}

var knownFailOn = map[string]bool{
	"error":   true,
	"warning": true,
	"info":    true,
	"none":    true,
}

// Validate checks a Config for structural and semantic errors. It returns
// a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	for name, tool := range cfg.Tools {
		prefix := fmt.Sprintf("tools.%s", name)

		if !knownTools[name] {
			errs = append(errs, ValidationError{
				Field:   prefix,
				Message: fmt.Sprintf("unrecognized tool %q", name),
			})
			continue
		}
		if _, err := tool.TimeoutDuration(); err != nil {
			errs = append(errs, ValidationError{
				Field:   prefix + ".timeout",
				Message: fmt.Sprintf("invalid duration %q", tool.Timeout),
			})
		}
		if tool.MaxComplexity < 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".max_complexity",
				Message: "must not be negative",
			})
		}
		if tool.MinConfidence < 0 || tool.MinConfidence > 100 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".min_confidence",
				Message: "must be between 0 and 100",
			})
		}
	}

	if !knownFormats[cfg.Output.Format] {
		errs = append(errs, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("unrecognized format %q", cfg.Output.Format),
		})
	}
	if !knownFailOn[cfg.Output.FailOn] {
		errs = append(errs, ValidationError{
			Field:   "output.fail_on",
			Message: fmt.Sprintf("must be one of error, warning, info, none; got %q", cfg.Output.FailOn),
		})
	}

	return errs
}
