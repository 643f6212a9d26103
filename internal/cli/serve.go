package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rickdevqrz/veredicto/internal/pipeline"
	"github.com/rickdevqrz/veredicto/internal/server"
)

var (
	serveAddr  string
	serveToken string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the verification HTTP server",
	Long: `Serve starts the HTTP API used by the browser extension:

  POST /api/analisar  - verify article content or run a query search
  GET  /health        - liveness probe

Example:
  veredicto serve
  veredicto serve --addr :9000
  SERPER_API_KEY=... veredicto serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveToken, "token", "", "API bearer token (empty disables auth)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Local development keeps secrets in a .env file
	_ = godotenv.Load()

	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveToken != "" {
		cfg.Server.APIToken = serveToken
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Search backend: enabled=%t key=%t\n", cfg.Search.Enabled, cfg.Search.SerperAPIKey != "")
		fmt.Fprintf(os.Stderr, "Judge provider: %q\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Auth: %t\n", cfg.Server.APIToken != "")
	}

	srv := server.New(cfg, p.Verifier, p.Fetcher, p.Judge, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
