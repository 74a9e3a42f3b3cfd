package worker

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dvincze/phototz/internal/report"
)

// Checker defines the interface for checking a single file.
type Checker interface {
	CheckFile(ctx context.Context, path string) report.FileReport
}

// CheckJob represents a single file check job
type CheckJob struct {
	Path    string
	Checker Checker
}

// Execute executes the check job
func (j *CheckJob) Execute(ctx context.Context) Result {
	return &CheckResult{Report: j.Checker.CheckFile(ctx, j.Path)}
}

// CheckResult represents the result of a check job
type CheckResult struct {
	Report report.FileReport
}

// GetError returns the error from the check result
func (r *CheckResult) GetError() error {
	if r.Report.Verdict == report.VerdictError {
		return fmt.Errorf("%s: %s", r.Report.Path, r.Report.Error)
	}
	return nil
}

// BatchProcessor checks multiple files concurrently
type BatchProcessor struct {
	checker     Checker
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(checker Checker, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		checker:     checker,
		concurrency: concurrency,
	}
}

// ProcessPaths checks the given files concurrently. Results come back
// sorted by path so batch output is stable regardless of scheduling.
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) report.BatchReport {
	if len(paths) == 0 {
		return report.Summarize(nil)
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&CheckJob{Path: path, Checker: b.checker})
	}

	results := pool.Wait()

	files := make([]report.FileReport, 0, len(results))
	for _, result := range results {
		files = append(files, result.(*CheckResult).Report)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })

	return report.Summarize(files)
}

// ProcessList reads file paths from a list file and checks them.
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string) (report.BatchReport, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return report.BatchReport{}, fmt.Errorf("read paths: %w", err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

// ProcessTree walks a directory tree and checks every regular file
// with a recognized image extension.
func (b *BatchProcessor) ProcessTree(ctx context.Context, root string) (report.BatchReport, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if isImagePath(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return report.BatchReport{}, fmt.Errorf("walk %s: %w", root, err)
	}
	return b.ProcessPaths(ctx, paths), nil
}

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".tif":  true,
	".tiff": true,
	".heic": true,
	".heif": true,
	".png":  true,
	".dng":  true,
	".cr2":  true,
	".cr3":  true,
	".nef":  true,
	".arw":  true,
	".orf":  true,
	".raf":  true,
	".rw2":  true,
}

func isImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// ReadPathsFromFile reads file paths from a file (one per line)
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
