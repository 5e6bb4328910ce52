package issuedoc

import (
	"os"
	"path/filepath"

	"github.com/ppichler/issuedoc/segment"
)

// Config holds all configuration for the issuedoc engine.
type Config struct {
	// DBPath is the full path to the SQLite run-log database file.
	// If empty, defaults to ~/.issuedoc/<DBName>.db
	DBPath string `json:"db_path" yaml:"db_path"`

	// DBName is the name for the database (used when DBPath is empty).
	// Defaults to "issuedoc".
	DBName string `json:"db_name" yaml:"db_name"`

	// StorageDir controls where the database is created when DBPath is
	// not explicitly set. Options: "home" (default) uses ~/.issuedoc/,
	// "local" uses the current working directory.
	StorageDir string `json:"storage_dir" yaml:"storage_dir"`

	// ImageDir is where extracted images are written during analysis.
	// Empty keeps images in memory only.
	ImageDir string `json:"image_dir" yaml:"image_dir"`

	// Insights configures the optional LLM that proposes ticket
	// priority, complexity and category. An empty Provider disables it.
	Insights LLMConfig `json:"insights" yaml:"insights"`

	// Tracker configures the issue-tracker sink. An empty ServerURL
	// leaves submission disabled.
	Tracker TrackerConfig `json:"tracker" yaml:"tracker"`

	// Segmentation tunes the issue boundary heuristics. Zero values
	// fall back to the segmentation defaults.
	Segmentation segment.Config `json:"segmentation" yaml:"segmentation"`
}

// LLMConfig configures a single LLM provider endpoint.
type LLMConfig struct {
	Provider string `json:"provider" yaml:"provider"` // openai, ollama, groq, custom
	Model    string `json:"model" yaml:"model"`
	BaseURL  string `json:"base_url" yaml:"base_url"`
	APIKey   string `json:"api_key" yaml:"api_key"`
}

// TrackerConfig configures the Jira sink.
type TrackerConfig struct {
	ServerURL  string `json:"server_url" yaml:"server_url"`
	Email      string `json:"email" yaml:"email"`
	APIToken   string `json:"api_token" yaml:"api_token"`
	ProjectKey string `json:"project_key" yaml:"project_key"`
	IssueType  string `json:"issue_type" yaml:"issue_type"` // defaults to Task
	EpicKey    string `json:"epic_key" yaml:"epic_key"`
	Status     string `json:"status" yaml:"status"` // target workflow status
}

// DefaultConfig returns a Config with analysis-only defaults. The run
// log is stored in ~/.issuedoc/issuedoc.db; insights and the tracker
// stay disabled until configured.
func DefaultConfig() Config {
	return Config{
		DBName:       "issuedoc",
		StorageDir:   "home",
		Segmentation: segment.DefaultConfig(),
	}
}

// resolveDBPath computes the final database path from config fields.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}

	name := c.DBName
	if name == "" {
		name = "issuedoc"
	}

	switch c.StorageDir {
	case "local", "cwd":
		return name + ".db"
	default: // "home" or empty
		home, err := os.UserHomeDir()
		if err != nil {
			return name + ".db" // fallback to cwd
		}
		return filepath.Join(home, ".issuedoc", name+".db")
	}
}
