package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ClaudeDir    string `toml:"claude_dir"`
	ProjectsDir  string `toml:"projects_dir"`
	HistoryFile  string `toml:"history_file"`
	ExportDir    string `toml:"export_dir"`
	SearchLimit  int    `toml:"search_limit"`
	ContextChars int    `toml:"context_chars"`
}

// Load builds the configuration from defaults, the optional
// ~/.config/cchat/config.toml (or $CCHAT_CONFIG) and environment
// overrides, in that order.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ClaudeDir:    filepath.Join(home, ".claude"),
		ExportDir:    filepath.Join(home, ".config", "cchat", "exports"),
		SearchLimit:  20,
		ContextChars: 80,
	}

	cfgPath := os.Getenv("CCHAT_CONFIG")
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "cchat", "config.toml")
	}
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)
	cfg.resolve(home)
	return cfg, nil
}

// WithClaudeDir returns a copy rooted at dir. Projects and history
// paths are re-derived from it.
func (c *Config) WithClaudeDir(dir string) *Config {
	home, _ := os.UserHomeDir()
	out := *c
	out.ClaudeDir = expandHome(dir, home)
	out.ProjectsDir = filepath.Join(out.ClaudeDir, "projects")
	out.HistoryFile = filepath.Join(out.ClaudeDir, "history.jsonl")
	return &out
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CLAUDE_DIR"); v != "" {
		cfg.ClaudeDir = v
	}
	if v := os.Getenv("CLAUDE_PROJECTS_DIR"); v != "" {
		cfg.ProjectsDir = v
	}
	if v := os.Getenv("CLAUDE_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv("CCHAT_EXPORT_DIR"); v != "" {
		cfg.ExportDir = v
	}
}

func (c *Config) resolve(home string) {
	c.ClaudeDir = expandHome(c.ClaudeDir, home)
	if c.ProjectsDir == "" {
		c.ProjectsDir = filepath.Join(c.ClaudeDir, "projects")
	}
	if c.HistoryFile == "" {
		c.HistoryFile = filepath.Join(c.ClaudeDir, "history.jsonl")
	}
	c.ProjectsDir = expandHome(c.ProjectsDir, home)
	c.HistoryFile = expandHome(c.HistoryFile, home)
	c.ExportDir = expandHome(c.ExportDir, home)
	if c.SearchLimit < 0 {
		c.SearchLimit = 0
	}
	if c.ContextChars <= 0 {
		c.ContextChars = 80
	}
}

func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
