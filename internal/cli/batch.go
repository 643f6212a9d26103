package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickdevqrz/veredicto/internal/pipeline"
	"github.com/rickdevqrz/veredicto/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Verify multiple article URLs from a file in parallel",
	Long: `Batch reads URLs from a file (one per line, #-comments allowed)
and verifies them concurrently, writing one JSON result per URL.

Example:
  veredicto batch urls.txt
  veredicto batch urls.txt --concurrency 8 --output-dir ./results`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./veredicto-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	p, err := pipeline.New(loadConfig(), logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)
	results, err := processor.ProcessFile(ctx, args[0])
	if err != nil {
		return err
	}

	failed := 0
	for i, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", res.URL, res.Err)
			continue
		}

		raw, err := json.MarshalIndent(res.Result, "", "  ")
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: encode: %v\n", res.URL, err)
			continue
		}
		path := filepath.Join(outputDir, fmt.Sprintf("result-%03d.json", i+1))
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: write: %v\n", res.URL, err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ %s: %s (score %d)\n", res.URL, res.Result.Verdict, res.Result.Score)
		}
	}

	fmt.Fprintf(os.Stderr, "Verified %d URLs, %d failed, results in %s\n", len(results), failed, outputDir)
	if failed == len(results) && len(results) > 0 {
		return fmt.Errorf("all %d URLs failed", failed)
	}
	return nil
}
