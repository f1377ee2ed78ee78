// Package config loads the CLI's persisted defaults and environment
// overrides: a TOML config file for durable settings, a project-local
// JSON-with-comments override file, a .env file, and finally the
// process environment, each layer overriding the one before it.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
)

// Built-in defaults: bus name splinter_debug, key __debug, 1024 slots,
// 4096-byte max value length.
const (
	DefaultBus      = "splinter_debug"
	DefaultKey      = "__debug"
	DefaultSlots    = 1024
	DefaultMaxValSz = 4096
	DefaultHistLen  = 500
)

// Config is the CLI's resolved configuration: persisted defaults
// (config.toml) overlaid with project-local overrides (.splinter.jsonc)
// and then environment variables, highest precedence last.
type Config struct {
	Bus         string `toml:"bus" json:"bus"`
	Slots       uint32 `toml:"slots" json:"slots"`
	MaxValSz    uint32 `toml:"max_val_sz" json:"max_val_sz"`
	AutoVacuum  bool   `toml:"auto_vacuum" json:"auto_vacuum"`
	HistoryFile string `toml:"history_file" json:"history_file"`
	HistoryLen  int    `toml:"history_len" json:"history_len"`
	NSPrefix    string `toml:"ns_prefix" json:"ns_prefix"`
	Persistent  string `toml:"persistent_dir" json:"persistent_dir"`
}

// Default returns the built-in defaults.
func Default() Config {
	home, _ := os.UserHomeDir()
	hist := filepath.Join(home, ".splinter_history")
	return Config{
		Bus:         DefaultBus,
		Slots:       DefaultSlots,
		MaxValSz:    DefaultMaxValSz,
		AutoVacuum:  true,
		HistoryFile: hist,
		HistoryLen:  DefaultHistLen,
	}
}

// configFilePath resolves the persisted TOML config path, honoring
// SPLINTER_CONFIG.
func configFilePath() string {
	if p := os.Getenv("SPLINTER_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "splinter", "config.toml")
}

// Load resolves Config by layering: built-in defaults, a persisted TOML
// config file, a project-local .splinter.jsonc override (hujson, so
// comments and trailing commas are allowed), .env (godotenv) and
// finally the process environment — each layer overriding the last.
func Load(workDir string) (Config, error) {
	cfg := Default()

	if path := configFilePath(); path != "" {
		if b, err := os.ReadFile(path); err == nil {
			if err := toml.Unmarshal(b, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if workDir != "" {
		projPath := filepath.Join(workDir, ".splinter.jsonc")
		if b, err := os.ReadFile(projPath); err == nil {
			std, err := hujson.Standardize(b)
			if err != nil {
				return cfg, err
			}
			if err := jsonUnmarshalInto(std, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	_ = godotenv.Load() // best-effort; a missing .env is not an error

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SPLINTER_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv("SPLINTER_HISTORY_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLen = n
		}
	}
	if v := os.Getenv("SPLINTER_NS_PREFIX"); v != "" {
		cfg.NSPrefix = v
	}
	if v := os.Getenv("SPLINTER_PERSISTENT"); v != "" {
		cfg.Persistent = v
	}
}

func jsonUnmarshalInto(std []byte, cfg *Config) error {
	return json.Unmarshal(std, cfg)
}
