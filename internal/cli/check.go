package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickdevqrz/veredicto/internal/pipeline"
)

var (
	checkTimeout time.Duration
	checkUA      string
	noCache      bool
	llmProvider  string
	llmModel     string
	outJSON      string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Verify a single news article by URL",
	Long: `Check fetches the article, retrieves corroborating coverage from
trusted sources, and prints the trust verdict as JSON.

Example:
  veredicto check https://example.com/noticia
  veredicto check https://example.com/noticia --json result.json
  veredicto check https://example.com/noticia --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 30*time.Second, "overall verification timeout")
	checkCmd.Flags().StringVar(&checkUA, "ua", "", "HTTP User-Agent (overrides config)")
	checkCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	checkCmd.Flags().StringVar(&outJSON, "json", "", "write the result to this path instead of stdout")

	// LLM flags
	checkCmd.Flags().StringVar(&llmProvider, "llm", "", "enable the LLM judge (openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "judge model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	rawURL := args[0]

	cfg := loadConfig()
	if checkUA != "" {
		cfg.HTTP.UserAgent = checkUA
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking: %s\n", rawURL)
	}

	result, err := p.VerifyURL(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Verdict: %s (score %d, %d sources)\n",
			result.Verdict, result.Score, len(result.Sources))
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if outJSON != "" {
		if err := os.WriteFile(outJSON, raw, 0o644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Result written to %s\n", outJSON)
		return nil
	}
	fmt.Println(string(raw))
	return nil
}
