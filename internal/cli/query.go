package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickdevqrz/veredicto/internal/pipeline"
)

var queryTimeout time.Duration

// queryCmd represents the query command
var queryCmd = &cobra.Command{
	Use:   "query <terms...>",
	Short: "Search recent trusted coverage for a topic",
	Long: `Query retrieves the latest stories about a topic from trusted
sources, newest first. No verdict is computed; the output is the
coverage itself.

Example:
  veredicto query eleicoes 2026
  veredicto query "reforma tributaria"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().DurationVar(&queryTimeout, "timeout", 20*time.Second, "retrieval timeout")
}

func runQuery(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	logger := log.New(os.Stderr, "", log.LstdFlags)
	p, err := pipeline.New(loadConfig(), logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	result := p.VerifyQuery(ctx, query)

	if len(result.Sources) == 0 {
		fmt.Fprintln(os.Stderr, "No trusted coverage found.")
	}
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Println(string(raw))
	return nil
}
