// Package worker runs verification over many URLs concurrently
package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// URLVerifier verifies a single URL end to end
type URLVerifier interface {
	VerifyURL(ctx context.Context, rawURL string) (*model.Result, error)
}

// BatchResult is the outcome for one URL in a batch
type BatchResult struct {
	URL    string
	Result *model.Result
	Err    error
}

// BatchProcessor verifies multiple URLs with a bounded worker pool
type BatchProcessor struct {
	verifier    URLVerifier
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(verifier URLVerifier, concurrency int) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &BatchProcessor{
		verifier:    verifier,
		concurrency: concurrency,
	}
}

// ProcessURLs verifies the URLs concurrently. Results come back in input
// order; one failing URL never aborts the batch.
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []BatchResult {
	if len(urls) == 0 {
		return []BatchResult{}
	}

	results := make([]BatchResult, len(urls))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < b.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = b.verifyOne(ctx, urls[i])
			}
		}()
	}

	for i := range urls {
		select {
		case <-ctx.Done():
			// remaining entries report the cancellation
			for j := i; j < len(urls); j++ {
				results[j] = BatchResult{URL: urls[j], Err: ctx.Err()}
			}
			close(jobs)
			wg.Wait()
			return results
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (b *BatchProcessor) verifyOne(ctx context.Context, rawURL string) BatchResult {
	result, err := b.verifier.VerifyURL(ctx, rawURL)
	return BatchResult{URL: rawURL, Result: result, Err: err}
}

// ProcessFile reads URLs from a file and verifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]BatchResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}
	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file, one per line. Blank lines and
// #-comments are skipped, duplicates dropped.
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
