package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage veredicto configuration",
	Long: `Manage veredicto configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (VEREDICTO_*, SERPER_API_KEY, OPENAI_API_KEY)
3. Config file (~/.veredicto/config.yaml)
4. Defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		// Secrets never reach stdout
		if cfg.Search.SerperAPIKey != "" {
			cfg.Search.SerperAPIKey = "(set)"
		}
		if cfg.Server.APIToken != "" {
			cfg.Server.APIToken = "(set)"
		}
		if cfg.LLM.APIKey != "" {
			cfg.LLM.APIKey = "(set)"
		}

		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		fmt.Println(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize default configuration file",
	Long:  `Create a default configuration file at ~/.veredicto/config.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("error finding home directory: %w", err)
		}

		configDir := home + "/.veredicto"
		configPath := configDir + "/config.yaml"

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'veredicto config show' to view it, or delete it first to recreate", configPath)
		}

		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}

		f, err := os.Create(configPath)
		if err != nil {
			return fmt.Errorf("error creating config file: %w", err)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close config file: %w", closeErr)
			}
		}()

		header := `# Veredicto Configuration File
#
# Configuration hierarchy (highest to lowest priority):
#   1. CLI flags
#   2. Environment variables (VEREDICTO_*)
#   3. This config file
#   4. Built-in defaults

`
		if _, err := f.WriteString(header); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		yamlData, err := yaml.Marshal(loadConfig())
		if err != nil {
			return fmt.Errorf("error marshaling config: %w", err)
		}
		if _, err := f.Write(yamlData); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		footer := `
# API keys (recommended to use environment variables instead):
#   export SERPER_API_KEY=...
#   export OPENAI_API_KEY=sk-...
#   export OLLAMA_BASE_URL=http://localhost:11434
`
		if _, err := f.WriteString(footer); err != nil {
			return fmt.Errorf("error writing config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the configuration:\n  veredicto config show\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}
