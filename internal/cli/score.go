package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickdevqrz/veredicto/internal/heuristic"
	"github.com/rickdevqrz/veredicto/internal/pipeline"
)

var (
	scoreTimeout     time.Duration
	scoreSensitivity string
	scoreText        string
	scoreTitle       string
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score [url]",
	Short: "Run the page heuristic scorer without evidence retrieval",
	Long: `Score runs the interactive page scorer on an article: the wide 0-100
scale with emoji, promise-pattern and highlight signals. No sources are
retrieved; this is the offline view of what the page itself looks like.

Example:
  veredicto score https://example.com/noticia
  veredicto score --title "URGENTE!!!" --text "Compartilhe antes que apaguem"
  veredicto score https://example.com/noticia --sensitivity high`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 15*time.Second, "fetch timeout")
	scoreCmd.Flags().StringVar(&scoreSensitivity, "sensitivity", "medium", "scoring sensitivity (low, medium, high)")
	scoreCmd.Flags().StringVar(&scoreTitle, "title", "", "score this title instead of fetching")
	scoreCmd.Flags().StringVar(&scoreText, "text", "", "score this text instead of fetching")
}

func runScore(cmd *cobra.Command, args []string) error {
	in := heuristic.Input{Title: scoreTitle, Text: scoreText}

	if len(args) == 1 {
		in.URL = args[0]
		if scoreTitle == "" && scoreText == "" {
			cfg := loadConfig()
			logger := log.New(os.Stderr, "", log.LstdFlags)
			p, err := pipeline.New(cfg, logger)
			if err != nil {
				return fmt.Errorf("build pipeline: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
			defer cancel()

			article, err := p.Fetcher.Fetch(ctx, in.URL)
			if err != nil {
				return fmt.Errorf("fetch article: %w", err)
			}
			in.Title = article.Title
			in.Text = article.Text
		}
	} else if scoreTitle == "" && scoreText == "" {
		return fmt.Errorf("provide a URL or --title/--text")
	}

	result := heuristic.PageScore(in, scoreSensitivity)

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}
