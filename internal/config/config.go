// Package config loads taskbot settings from defaults, an optional YAML file
// and TASKBOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/taskbot/internal/guard"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendHTTP   = "http"
)

type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Guards  GuardsConfig  `yaml:"guards"`
	UI      UIConfig      `yaml:"ui"`
}

// StoreConfig selects the task backend. Driver and Path apply to sqlite;
// BaseURL, Token and Timeout apply to http.
type StoreConfig struct {
	Backend string        `yaml:"backend"`
	Driver  string        `yaml:"driver"`
	Path    string        `yaml:"path"`
	BaseURL string        `yaml:"base_url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	File        string `yaml:"file"`
	Development bool   `yaml:"development"`
}

// GuardsConfig extends the built-in guard tables. Empty replies keep the
// defaults.
type GuardsConfig struct {
	Abusive         []string `yaml:"abusive"`
	Gratitude       []string `yaml:"gratitude"`
	Emotional       []string `yaml:"emotional"`
	CapabilityReply string   `yaml:"capability_reply"`
	GratitudeReply  string   `yaml:"gratitude_reply"`
}

// Apply extends base with the configured terms and reply overrides.
func (g GuardsConfig) Apply(base guard.Rules) guard.Rules {
	return base.Merge(guard.Rules{
		Abusive:         g.Abusive,
		Gratitude:       g.Gratitude,
		Emotional:       g.Emotional,
		CapabilityReply: g.CapabilityReply,
		GratitudeReply:  g.GratitudeReply,
	})
}

type UIConfig struct {
	TaskPaneWidth int  `yaml:"task_pane_width"`
	Markdown      bool `yaml:"markdown"`
}

func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend: BackendSQLite,
			Driver:  "sqlite3",
			Path:    defaultDBPath(),
			Timeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			TaskPaneWidth: 44,
			Markdown:      true,
		},
	}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "taskbot.yaml"
	}
	return filepath.Join(dir, "taskbot", "config.yaml")
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "taskbot.db"
	}
	return filepath.Join(dir, "taskbot", "taskbot.db")
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg = FromEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return errors.New("config: store.path is required for the sqlite backend")
		}
		switch c.Store.Driver {
		case "sqlite3", "sqlite":
		default:
			return fmt.Errorf("config: unknown sqlite driver %q", c.Store.Driver)
		}
	case BackendHTTP:
		if strings.TrimSpace(c.Store.BaseURL) == "" {
			return errors.New("config: store.base_url is required for the http backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Timeout < 0 {
		return errors.New("config: store.timeout must not be negative")
	}
	return nil
}

// FromEnv applies TASKBOT_* overrides to base.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TASKBOT_STORE_BACKEND"); ok {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKBOT_SQLITE_DRIVER"); ok {
		cfg.Store.Driver = v
	}
	if v, ok := getEnvString("TASKBOT_DB_PATH"); ok {
		cfg.Store.Path = v
	}
	if v, ok := getEnvString("TASKBOT_API_URL"); ok {
		cfg.Store.BaseURL = v
	}
	if v, ok := getEnvString("TASKBOT_API_TOKEN"); ok {
		cfg.Store.Token = v
	}
	if v, ok := getEnvDuration("TASKBOT_API_TIMEOUT"); ok && v > 0 {
		cfg.Store.Timeout = v
	}
	if v, ok := getEnvString("TASKBOT_LOG_LEVEL"); ok {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v, ok := getEnvString("TASKBOT_LOG_FILE"); ok {
		cfg.Logging.File = v
	}
	if v, ok := getEnvBool("TASKBOT_LOG_DEVELOPMENT"); ok {
		cfg.Logging.Development = v
	}
	if v, ok := getEnvInt("TASKBOT_TASK_PANE_WIDTH"); ok && v > 0 {
		cfg.UI.TaskPaneWidth = v
	}
	if v, ok := getEnvBool("TASKBOT_MARKDOWN"); ok {
		cfg.UI.Markdown = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
