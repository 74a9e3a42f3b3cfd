package llm

import (
	"strings"
	"testing"

	"github.com/dvincze/phototz/internal/model"
	"github.com/dvincze/phototz/internal/report"
)

func TestNewExplainer_RequiresAPIKey(t *testing.T) {
	_, err := NewExplainer(Config{})
	if err == nil {
		t.Error("expected error for missing API key")
	}

	e, err := NewExplainer(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e == nil {
		t.Error("expected explainer instance")
	}
}

func TestBuildPrompt(t *testing.T) {
	tags := &model.ConsistencyResult{
		Fixable:   map[string]string{"ExifIFD:OffsetTimeOriginal": "+02:00"},
		Deletable: map[string]string{"IFD0:ModifyDate": "naive mismatch"},
	}
	batch := report.Summarize([]report.FileReport{
		{Path: "clean.jpg", Verdict: report.VerdictOK},
		{Path: "skip.jpg", Verdict: report.VerdictSkipped, Skipped: "no GPS"},
		{Path: "broken.jpg", Verdict: report.VerdictFixable, Tags: tags},
		{Path: "wrong.jpg", Verdict: report.VerdictTzMismatch, Mismatch: "declared +05:00, expected +02:00"},
		{Path: "unread.jpg", Verdict: report.VerdictError, Error: "exiftool failed"},
	})

	prompt := BuildPrompt(batch)

	if !strings.Contains(prompt, "Checked 5 photo file(s): 1 ok") {
		t.Errorf("missing summary line in prompt:\n%s", prompt)
	}

	// Clean and skipped files are counted but never listed.
	if strings.Contains(prompt, "clean.jpg") || strings.Contains(prompt, "skip.jpg") {
		t.Errorf("clean or skipped file listed in prompt:\n%s", prompt)
	}

	for _, want := range []string{
		"broken.jpg:",
		"set ExifIFD:OffsetTimeOriginal = +02:00",
		"delete IFD0:ModifyDate = naive mismatch",
		"wrong.jpg: timezone mismatch: declared +05:00, expected +02:00",
		"unread.jpg: error: exiftool failed",
		"Explain what is wrong and how to fix it.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
