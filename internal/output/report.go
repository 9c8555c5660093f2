package output

import (
	"github.com/dshills/varscrub/internal/redact"
	"github.com/dshills/varscrub/internal/tfvars"
	"github.com/google/uuid"
)

// Report describes one mapping build and, when a document was sanitized,
// how often each value was replaced.
type Report struct {
	Tool       string  `json:"tool" yaml:"tool"`
	Version    string  `json:"version" yaml:"version"`
	RunID      string  `json:"runId" yaml:"runId"`
	VarsFile   string  `json:"varsFile" yaml:"varsFile"`
	InputFile  string  `json:"inputFile,omitempty" yaml:"inputFile,omitempty"`
	OutputFile string  `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
	Counts     Counts  `json:"counts" yaml:"counts"`
	Entries    []Entry `json:"entries" yaml:"entries"`
}

// Counts summarizes a report.
type Counts struct {
	Legend       int `json:"legend" yaml:"legend"`
	Network      int `json:"network" yaml:"network"`
	Assignment   int `json:"assignment" yaml:"assignment"`
	Replacements int `json:"replacements" yaml:"replacements"`
}

// Entry is a merged mapping row with its replacement count.
type Entry struct {
	tfvars.Entry `yaml:",inline"`
	Replacements int `json:"replacements" yaml:"replacements"`
}

// BuildReport assembles a report from extractor layers. stats may be nil
// when no document was processed.
func BuildReport(version, varsFile string, layers tfvars.Layers, stats redact.Stats) *Report {
	r := &Report{
		Tool:     "varscrub",
		Version:  version,
		RunID:    uuid.New().String(),
		VarsFile: varsFile,
		Entries:  []Entry{},
	}
	for _, e := range layers.Entries() {
		switch e.Source {
		case tfvars.SourceLegend:
			r.Counts.Legend++
		case tfvars.SourceNetwork:
			r.Counts.Network++
		default:
			r.Counts.Assignment++
		}
		r.Entries = append(r.Entries, Entry{Entry: e, Replacements: stats[e.Value]})
	}
	r.Counts.Replacements = stats.Total()
	return r
}
