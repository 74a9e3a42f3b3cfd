package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvincze/phototz/internal/pipeline"
	"github.com/dvincze/phototz/internal/report"
)

var (
	checkTimeout    string
	borderTolerance float64
	outputFormat    string
	noCache         bool
	noColor         bool
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Check timezone and datetime consistency of photo files",
	Long: `Check reads the metadata of each file and runs two validations:

- Timezone: the UTC offset the camera declared must agree with the
  offset derived from the GPS coordinates and capture time. Points
  within the border tolerance of a neighbouring zone accept either
  offset.
- Datetime tags: every datetime tag must agree with the primary
  capture timestamp. Disagreeing tags are reported as fixable (a
  corrected value exists), deletable (contradictory, no safe fix) or
  fatal (the primary timestamp itself is unusable).

Example:
  phototz check IMG_0042.jpg
  phototz check --border-tolerance 500 *.jpg
  phototz check --format yaml photo.jpg > result.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkTimeout, "timeout", "", "per-file metadata read timeout (e.g. 30s)")
	checkCmd.Flags().Float64Var(&borderTolerance, "border-tolerance", -1, "zone border tolerance in meters (overrides config)")
	checkCmd.Flags().StringVar(&outputFormat, "format", "", "output format: text or yaml (overrides config)")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable metadata cache (force fresh reads)")
	checkCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if checkTimeout != "" {
		d, err := time.ParseDuration(checkTimeout)
		if err != nil {
			return fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Exiftool.Timeout = d
	}
	if borderTolerance >= 0 {
		cfg.Checks.BorderToleranceMeters = borderTolerance
	}
	if outputFormat != "" {
		cfg.Output.Format = outputFormat
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if noColor {
		cfg.Output.Color = false
	}

	svc, err := pipeline.NewService(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	ctx := context.Background()
	files := make([]report.FileReport, 0, len(args))
	for _, path := range args {
		files = append(files, svc.CheckFile(ctx, path))
	}
	batch := report.Summarize(files)

	if err := renderBatch(os.Stdout, batch, cfg.Output.Format, cfg.Output.Color); err != nil {
		return err
	}
	return exitForVerdict(batch)
}

func renderBatch(w *os.File, batch report.BatchReport, format string, useColor bool) error {
	if format == "yaml" {
		return report.RenderYAML(w, batch)
	}
	return report.RenderText(w, batch, useColor)
}

// exitForVerdict maps the worst verdict in the batch to a process
// exit code: clean and skipped runs exit 0, everything else exits 1.
func exitForVerdict(batch report.BatchReport) error {
	switch batch.WorstVerdict() {
	case report.VerdictOK, report.VerdictSkipped:
		return nil
	}
	return fmt.Errorf("%d of %d file(s) failed checks",
		batch.Summary.Total-batch.Summary.OK-batch.Summary.Skipped, batch.Summary.Total)
}
