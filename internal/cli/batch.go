package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvincze/phototz/internal/llm"
	"github.com/dvincze/phototz/internal/pipeline"
	"github.com/dvincze/phototz/internal/report"
	"github.com/dvincze/phototz/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
	fromList     bool
	explain      bool
	llmModel     string
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <dir|list-file>",
	Short: "Check many photo files in parallel",
	Long: `Batch runs the consistency checks over many files concurrently:
- Walk a directory tree for image files, or read paths from a list
  file (one per line, # comments allowed)
- Check files in parallel with a configurable worker count
- Print one aggregated report, sorted by path

Example:
  phototz batch ~/photos
  phototz batch --concurrency 16 --format yaml ~/photos
  phototz batch --list paths.txt
  phototz batch --explain ~/photos/2024`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&fromList, "list", false, "treat the argument as a list file instead of a directory")
	batchCmd.Flags().Float64Var(&borderTolerance, "border-tolerance", -1, "zone border tolerance in meters (overrides config)")
	batchCmd.Flags().StringVar(&outputFormat, "format", "", "output format: text or yaml (overrides config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable metadata cache (force fresh reads)")
	batchCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// LLM flags
	batchCmd.Flags().BoolVar(&explain, "explain", false, "explain the results in plain language (requires OPENAI_API_KEY)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "model for --explain (overrides config)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	target := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
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
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}

	svc, err := pipeline.NewService(cfg)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", target)
		fmt.Fprintf(os.Stderr, "Workers:  %d\n", cfg.Concurrency.Workers)
		fmt.Fprintln(os.Stderr)
	}

	processor := worker.NewBatchProcessor(svc, cfg.Concurrency.Workers)

	var batch report.BatchReport
	if fromList {
		batch, err = processor.ProcessList(ctx, target)
	} else {
		batch, err = processor.ProcessTree(ctx, target)
	}
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if err := renderBatch(os.Stdout, batch, cfg.Output.Format, cfg.Output.Color); err != nil {
		return err
	}

	// Explanation never affects check results or the exit code.
	if explain {
		if err := explainBatch(ctx, cfg.LLM.Model, batch); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: explain failed: %v\n", err)
		}
	}

	return exitForVerdict(batch)
}

func explainBatch(ctx context.Context, model string, batch report.BatchReport) error {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}
	explainer, err := llm.NewExplainer(llm.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
		Model:   model,
	})
	if err != nil {
		return err
	}
	text, err := explainer.Explain(ctx, batch)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(text)
	return nil
}
