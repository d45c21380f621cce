package app

import (
	"bytes"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"jsonprof/domain/profile"
	"jsonprof/internal/errors"
)

// Format selects how a Run is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json and yaml; report is an alias of text
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "report":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.InvalidInput("unknown output format " + s + " (want text, json or yaml)")
}

// RunDocument is the structured form of a Run
type RunDocument struct {
	RunID      RunID              `json:"run_id" yaml:"run_id"`
	Source     string             `json:"source,omitempty" yaml:"source,omitempty"`
	Stats      *profile.StatsNode `json:"stats" yaml:"stats"`
	Anomalies  []profile.Anomaly  `json:"anomalies" yaml:"anomalies"`
	Boundaries profile.Boundaries `json:"boundaries" yaml:"boundaries"`
	Report     string             `json:"report,omitempty" yaml:"report,omitempty"`
}

// Document converts run into its structured form; the text report is
// included only when withReport is set
func Document(run *Run, withReport bool) RunDocument {
	analysis := run.Analysis
	doc := RunDocument{
		RunID:      run.ID,
		Source:     run.Source,
		Stats:      analysis.Tree,
		Anomalies:  analysis.Anomalies,
		Boundaries: analysis.Boundaries,
	}
	if doc.Anomalies == nil {
		doc.Anomalies = []profile.Anomaly{}
	}
	if doc.Boundaries == nil {
		doc.Boundaries = profile.Boundaries{}
	}
	if withReport {
		doc.Report = analysis.Report
	}
	return doc
}

// Render formats run as the text report, or as a JSON or YAML RunDocument
func Render(run *Run, format Format) (string, error) {
	switch format {
	case FormatText, "":
		return run.Analysis.Report, nil
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(Document(run, false)); err != nil {
			return "", errors.Wrap(err, "failed to encode analysis as JSON")
		}
		return strings.TrimSuffix(buf.String(), "\n"), nil
	case FormatYAML:
		out, err := yaml.Marshal(Document(run, false))
		if err != nil {
			return "", errors.Wrap(err, "failed to encode analysis as YAML")
		}
		return string(out), nil
	}
	return "", errors.InvalidInput("unknown output format " + string(format))
}
