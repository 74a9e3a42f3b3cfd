package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	okColor        = color.New(color.FgGreen)
	fixableColor   = color.New(color.FgYellow)
	deletableColor = color.New(color.FgYellow, color.Bold)
	fatalColor     = color.New(color.FgRed, color.Bold)
	mismatchColor  = color.New(color.FgRed)
	skippedColor   = color.New(color.FgCyan)
)

// RenderYAML writes the batch report as YAML.
func RenderYAML(w io.Writer, b BatchReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// RenderText writes a human-readable batch report. Clean files are
// listed a line each; problem files get their detail indented below.
func RenderText(w io.Writer, b BatchReport, useColor bool) error {
	if !useColor {
		color.NoColor = true
	}
	for _, f := range b.Files {
		if err := renderFile(w, f); err != nil {
			return err
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "checked %d file(s): %d ok, %d fixable, %d deletable, %d fatal, %d tz mismatch, %d skipped, %d errors\n",
		b.Summary.Total, b.Summary.OK, b.Summary.Fixable, b.Summary.Deletable,
		b.Summary.Fatal, b.Summary.TzMismatch, b.Summary.Skipped, b.Summary.Errors)
	return nil
}

func renderFile(w io.Writer, f FileReport) error {
	switch f.Verdict {
	case VerdictOK:
		fmt.Fprintf(w, "%s %s", okColor.Sprint("OK       "), f.Path)
		if f.Zone != "" {
			fmt.Fprintf(w, " (%s)", f.Zone)
		}
		fmt.Fprintln(w)
	case VerdictSkipped:
		fmt.Fprintf(w, "%s %s: %s\n", skippedColor.Sprint("SKIP     "), f.Path, f.Skipped)
	case VerdictError:
		fmt.Fprintf(w, "%s %s: %s\n", fatalColor.Sprint("ERROR    "), f.Path, f.Error)
	case VerdictTzMismatch:
		fmt.Fprintf(w, "%s %s: %s\n", mismatchColor.Sprint("MISMATCH "), f.Path, f.Mismatch)
	default:
		label := fixableColor.Sprint("FIXABLE  ")
		if f.Verdict == VerdictDeletable {
			label = deletableColor.Sprint("DELETABLE")
		} else if f.Verdict == VerdictFatal {
			label = fatalColor.Sprint("FATAL    ")
		}
		fmt.Fprintf(w, "%s %s\n", label, f.Path)
		if f.Tags != nil {
			renderTags(w, f.Tags.Fatal, "fatal")
			renderTags(w, f.Tags.Deletable, "delete")
			renderTags(w, f.Tags.Fixable, "fix")
		}
	}
	return nil
}

func renderTags(w io.Writer, m map[string]string, action string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-6s %s = %s\n", action, k, m[k])
	}
}
