package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppichler/issuedoc"
)

// loadConfig reads the optional YAML config file and applies
// ISSUEDOC_* environment overrides on top.
func loadConfig(path string) (issuedoc.Config, error) {
	cfg := issuedoc.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("opening config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Overrides from environment variables, mainly for credentials that
	// should not live in the config file.
	if v := os.Getenv("ISSUEDOC_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ISSUEDOC_IMAGE_DIR"); v != "" {
		cfg.ImageDir = v
	}
	if v := os.Getenv("ISSUEDOC_LLM_PROVIDER"); v != "" {
		cfg.Insights.Provider = v
	}
	if v := os.Getenv("ISSUEDOC_LLM_MODEL"); v != "" {
		cfg.Insights.Model = v
	}
	if v := os.Getenv("ISSUEDOC_LLM_BASE_URL"); v != "" {
		cfg.Insights.BaseURL = v
	}
	if v := os.Getenv("ISSUEDOC_LLM_API_KEY"); v != "" {
		cfg.Insights.APIKey = v
	}
	if cfg.Insights.APIKey == "" {
		switch cfg.Insights.Provider {
		case "openai":
			cfg.Insights.APIKey = os.Getenv("OPENAI_API_KEY")
		case "groq":
			cfg.Insights.APIKey = os.Getenv("GROQ_API_KEY")
		}
	}
	if v := os.Getenv("ISSUEDOC_JIRA_URL"); v != "" {
		cfg.Tracker.ServerURL = v
	}
	if v := os.Getenv("ISSUEDOC_JIRA_EMAIL"); v != "" {
		cfg.Tracker.Email = v
	}
	if v := os.Getenv("ISSUEDOC_JIRA_TOKEN"); v != "" {
		cfg.Tracker.APIToken = v
	}
	if v := os.Getenv("ISSUEDOC_JIRA_PROJECT"); v != "" {
		cfg.Tracker.ProjectKey = v
	}

	return cfg, nil
}
