package adapter

import (
	"regexp"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/textparse"
)

// interrogateTextRe matches docstring coverage lines:
// path:line:col: missing <kind> docstring (INTxxx), column optional.
var interrogateTextRe = regexp.MustCompile(`^(.+?):(\d+):(?:(\d+):)?\s*(.+?)\s*\((INT\d{3})\)$`)

// Interrogate builds the adapter for interrogate. The tool reports
// docstring coverage as plain text only, so this adapter is fallback-only
// and ignores the structured hint.
func Interrogate() *Adapter {
	fallback := textparse.New("interrogate", textparse.Pattern{
		Name:            "interrogate-text",
		Regexp:          interrogateTextRe,
		Path:            1,
		Line:            2,
		Column:          3,
		Message:         4,
		Code:            5,
		DefaultCode:     "INT199",
		DefaultSeverity: finding.SeverityWarning,
	})

	return &Adapter{
		name:       "interrogate",
		structured: false,
		fallback:   fallback,
	}
}
