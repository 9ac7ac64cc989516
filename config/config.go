// Package config loads application settings. The core packages never read
// the environment themselves; everything reaches them through an explicit
// Config value built here.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when neither environment nor config file set a value
const (
	DefaultFormat        = "raw"
	DefaultStatus        = "failed"
	DefaultTicketPrefix  = "TMS"
	DefaultCacheTTL      = 24 * time.Hour
	DefaultRerunTemplate = `pytest -k "{tests}"`
)

// Config holds every tunable the application accepts
type Config struct {
	JiraBaseURL    string
	JiraEmail      string
	JiraToken      string
	JiraStepsField string

	TicketPrefix string
	CacheDir     string
	CacheTTL     time.Duration

	DefaultFormat string
	DefaultStatus string
	RerunTemplate string
}

// fileConfig mirrors the optional YAML config file
type fileConfig struct {
	JiraURL        string `yaml:"jira_url"`
	JiraEmail      string `yaml:"jira_email"`
	JiraToken      string `yaml:"jira_token"`
	JiraStepsField string `yaml:"jira_steps_field"`
	TicketPrefix   string `yaml:"ticket_prefix"`
	CacheDir       string `yaml:"cache_dir"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours"`
	Format         string `yaml:"format"`
	Status         string `yaml:"status"`
	RerunCmd       string `yaml:"rerun_cmd"`
}

// Load builds the configuration from the optional config file and the
// MINE_* environment variables, environment taking precedence. A .env file
// in the working directory is honored when present.
func Load() Config {
	// Best effort: absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := Config{
		TicketPrefix:  DefaultTicketPrefix,
		CacheDir:      defaultCacheDir(),
		CacheTTL:      DefaultCacheTTL,
		DefaultFormat: DefaultFormat,
		DefaultStatus: DefaultStatus,
		RerunTemplate: DefaultRerunTemplate,
	}

	applyFile(&cfg, readFileConfig())
	applyEnv(&cfg)
	return cfg
}

func applyFile(cfg *Config, fc fileConfig) {
	setIf(&cfg.JiraBaseURL, fc.JiraURL)
	setIf(&cfg.JiraEmail, fc.JiraEmail)
	setIf(&cfg.JiraToken, fc.JiraToken)
	setIf(&cfg.JiraStepsField, fc.JiraStepsField)
	setIf(&cfg.TicketPrefix, fc.TicketPrefix)
	setIf(&cfg.CacheDir, fc.CacheDir)
	setIf(&cfg.DefaultFormat, fc.Format)
	setIf(&cfg.DefaultStatus, fc.Status)
	setIf(&cfg.RerunTemplate, fc.RerunCmd)
	if fc.CacheTTLHours > 0 {
		cfg.CacheTTL = time.Duration(fc.CacheTTLHours) * time.Hour
	}
}

func applyEnv(cfg *Config) {
	setIf(&cfg.JiraBaseURL, os.Getenv("MINE_JIRA_URL"))
	setIf(&cfg.JiraEmail, os.Getenv("MINE_JIRA_EMAIL"))
	setIf(&cfg.JiraToken, os.Getenv("MINE_JIRA_TOKEN"))
	setIf(&cfg.JiraStepsField, os.Getenv("MINE_JIRA_STEPS_FIELD"))
	setIf(&cfg.TicketPrefix, os.Getenv("MINE_TICKET_PREFIX"))
	setIf(&cfg.CacheDir, os.Getenv("MINE_CACHE_DIR"))
	setIf(&cfg.DefaultFormat, os.Getenv("MINE_FORMAT"))
	setIf(&cfg.DefaultStatus, os.Getenv("MINE_STATUS"))
	setIf(&cfg.RerunTemplate, os.Getenv("MINE_RERUN_CMD"))
	if hours, err := strconv.Atoi(os.Getenv("MINE_CACHE_TTL")); err == nil && hours > 0 {
		cfg.CacheTTL = time.Duration(hours) * time.Hour
	}
}

func setIf(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// readFileConfig loads the optional YAML config file; a missing or broken
// file yields the zero value
func readFileConfig() fileConfig {
	var fc fileConfig
	path := configFilePath()
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc
	}
	_ = yaml.Unmarshal(data, &fc)
	return fc
}

func configFilePath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "reportminer", "config.yml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "reportminer", "config.yml")
}

func defaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "reportminer")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "reportminer")
	}
	return filepath.Join(home, ".cache", "reportminer")
}

// JiraConfigured reports whether ticket credentials are complete
func (c Config) JiraConfigured() bool {
	return c.JiraBaseURL != "" && c.JiraEmail != "" && c.JiraToken != ""
}
