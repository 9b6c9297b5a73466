package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lucasnoah/lintmux/internal/finding"
	"github.com/lucasnoah/lintmux/internal/runner"
)

// SARIF 2.1.0 document structures, limited to the fields code-scanning
// consumers read.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Message   sarifMessage    `json:"message"`
	Level     string          `json:"level"` // error, warning, note
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

// WriteSARIF renders one SARIF run per tool, with the given version on
// each driver.
func WriteSARIF(w io.Writer, results []runner.ToolResult, version string) error {
	doc := sarifLog{
		Version: "2.1.0",
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Runs:    make([]sarifRun, 0, len(results)),
	}

	for _, r := range results {
		run := sarifRun{
			Tool:    sarifTool{Driver: sarifDriver{Name: r.Tool, Version: version}},
			Results: make([]sarifResult, 0, len(r.Findings)),
		}
		for _, f := range r.Findings {
			run.Results = append(run.Results, toSARIFResult(f))
		}
		doc.Runs = append(doc.Runs, run)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal sarif: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write sarif: %w", err)
	}
	return nil
}

func toSARIFResult(f finding.Finding) sarifResult {
	uri := toURI(f.Path)
	if uri == "" {
		uri = "UNKNOWN"
	}
	line := f.Line
	if line <= 0 {
		line = 1
	}

	return sarifResult{
		RuleID:  f.Code,
		Level:   sevToLevel(f.Severity),
		Message: sarifMessage{Text: strings.TrimSpace(f.Message)},
		Locations: []sarifLocation{
			{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: uri},
					Region:           sarifRegion{StartLine: line},
				},
			},
		},
	}
}

func sevToLevel(s finding.Severity) string {
	switch s {
	case finding.SeverityError:
		return "error"
	case finding.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}

// toURI normalizes a file path into a relative forward-slash URI.
func toURI(p string) string {
	p = strings.TrimSpace(p)
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(p, "../")
	}
	return strings.TrimPrefix(p, "./")
}
