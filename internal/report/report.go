// Package report holds the per-file and batch verdicts produced by the
// consistency checks, and renders them for humans and machines.
package report

import "github.com/dvincze/phototz/internal/model"

// Verdict classifies the outcome of checking one file.
type Verdict string

const (
	VerdictOK         Verdict = "ok"
	VerdictFixable    Verdict = "fixable"
	VerdictDeletable  Verdict = "deletable"
	VerdictFatal      Verdict = "fatal"
	VerdictTzMismatch Verdict = "tz_mismatch"
	VerdictSkipped    Verdict = "skipped"
	VerdictError      Verdict = "error"
)

// FileReport is the outcome of checking a single file.
type FileReport struct {
	Path     string                   `yaml:"path"`
	Verdict  Verdict                  `yaml:"verdict"`
	Zone     string                   `yaml:"zone,omitempty"`
	Tags     *model.ConsistencyResult `yaml:"tags,omitempty"`
	Mismatch string                   `yaml:"mismatch,omitempty"`
	Skipped  string                   `yaml:"skipped,omitempty"`
	Error    string                   `yaml:"error,omitempty"`
}

// Summary aggregates verdict counts over a batch.
type Summary struct {
	Total      int `yaml:"total"`
	OK         int `yaml:"ok"`
	Fixable    int `yaml:"fixable"`
	Deletable  int `yaml:"deletable"`
	Fatal      int `yaml:"fatal"`
	TzMismatch int `yaml:"tz_mismatch"`
	Skipped    int `yaml:"skipped"`
	Errors     int `yaml:"errors"`
}

// BatchReport is the full outcome of a batch run.
type BatchReport struct {
	Files   []FileReport `yaml:"files"`
	Summary Summary      `yaml:"summary"`
}

// Summarize builds a batch report from per-file reports.
func Summarize(files []FileReport) BatchReport {
	var s Summary
	s.Total = len(files)
	for _, f := range files {
		switch f.Verdict {
		case VerdictOK:
			s.OK++
		case VerdictFixable:
			s.Fixable++
		case VerdictDeletable:
			s.Deletable++
		case VerdictFatal:
			s.Fatal++
		case VerdictTzMismatch:
			s.TzMismatch++
		case VerdictSkipped:
			s.Skipped++
		case VerdictError:
			s.Errors++
		}
	}
	return BatchReport{Files: files, Summary: s}
}

// WorstVerdict returns the most severe verdict in the batch, for exit
// code decisions. Severity order: fatal, tz_mismatch, error, deletable,
// fixable, skipped, ok.
func (b BatchReport) WorstVerdict() Verdict {
	rank := map[Verdict]int{
		VerdictOK:         0,
		VerdictSkipped:    1,
		VerdictFixable:    2,
		VerdictDeletable:  3,
		VerdictError:      4,
		VerdictTzMismatch: 5,
		VerdictFatal:      6,
	}
	worst := VerdictOK
	for _, f := range b.Files {
		if rank[f.Verdict] > rank[worst] {
			worst = f.Verdict
		}
	}
	return worst
}
