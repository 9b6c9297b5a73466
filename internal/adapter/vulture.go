package adapter

import (
	"regexp"
	"strings"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/textparse"
)

// Vulture's dead-code lines name the kind of unused item inside the
// message: path:line: unused <kind> 'name' (NN% confidence). Unreachable
// code is reported in a second shape without a quoted name.
var (
	vultureUnusedRe      = regexp.MustCompile(`^(.+?):(\d+): ((unused \w+) '[^']*' \(\d+% confidence\))$`)
	vultureUnreachableRe = regexp.MustCompile(`^(.+?):(\d+): (unreachable code after '.+' \(\d+% confidence\))$`)
)

// Vulture builds the adapter for vulture, which emits plain text only.
func Vulture() *Adapter {
	fallback := textparse.New("vulture",
		textparse.Pattern{
			Name:            "vulture-unused",
			Regexp:          vultureUnusedRe,
			Path:            1,
			Line:            2,
			Message:         3,
			Code:            4,
			DefaultSeverity: finding.SeverityWarning,
			MapCode: func(kind string) string {
				return strings.ReplaceAll(kind, " ", "-")
			},
		},
		textparse.Pattern{
			Name:            "vulture-unreachable",
			Regexp:          vultureUnreachableRe,
			Path:            1,
			Line:            2,
			Message:         3,
			DefaultCode:     "unreachable-code",
			DefaultSeverity: finding.SeverityWarning,
		},
	)

	return &Adapter{
		name:       "vulture",
		structured: false,
		fallback:   fallback,
	}
}
