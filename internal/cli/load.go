package cli

import (
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rickdevqrz/veredicto/internal/model"
)

// loadConfig builds the runtime configuration: defaults, overridden by the
// config file when one exists, overridden by environment variables.
// Secrets are expected from the environment, not the file.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		if raw, err := os.ReadFile(path); err == nil {
			// A malformed file falls back to defaults; commands report the
			// effective configuration via "config show".
			_ = yaml.Unmarshal(raw, cfg)
		}
	}

	if v := os.Getenv("SERPER_API_KEY"); v != "" {
		cfg.Search.SerperAPIKey = v
	}
	if v := os.Getenv("VEREDICTO_API_TOKEN"); v != "" {
		cfg.Server.APIToken = v
	}
	if v := os.Getenv("VEREDICTO_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = v
	}

	return cfg
}
