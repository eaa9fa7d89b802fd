// Package config loads and validates the pixlab YAML configuration.
// Environment variables (optionally via a .env file) override the file,
// so the tool runs without any config at all.
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds the API origin settings.
type ServerConfig struct {
	Addr           string `yaml:"addr"`
	Insecure       bool   `yaml:"insecure"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig holds logging settings. File is used by the interactive UI,
// which cannot share stderr with the terminal renderer.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// StateConfig holds the session directory.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// VerifyConfig controls the recurring token re-validation.
type VerifyConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// OutputConfig holds where generated and downloaded images land.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Config mirrors the pixlab.yaml schema.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	State  StateConfig  `yaml:"state"`
	Verify VerifyConfig `yaml:"verify"`
	Output OutputConfig `yaml:"output"`
}

// Load reads the YAML file at path (the default location when path is
// empty; a missing file is fine), applies env overrides and defaults,
// and validates. It returns a fully populated Config.
func Load(path string) (Config, error) {
	var c Config
	explicit := path != ""
	if path == "" {
		path = defaultPath()
	}
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return Config{}, err
			}
		case os.IsNotExist(err) && !explicit:
			// No config file is a supported setup.
		default:
			return Config{}, err
		}
	}
	applyEnv(&c)
	applyDefaults(&c)
	if err := validate(&c); err != nil {
		return Config{}, err
	}
	c.State.Dir = strings.TrimSpace(c.State.Dir)
	c.Output.Dir = strings.TrimSpace(c.Output.Dir)
	return c, nil
}

func defaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "pixlab", "pixlab.yaml")
}

// applyEnv overlays PIXLAB_* environment variables, loading a .env file
// from the working directory first when one exists.
func applyEnv(c *Config) {
	_ = godotenv.Load()
	if v := os.Getenv("PIXLAB_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("PIXLAB_INSECURE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Server.Insecure = b
		}
	}
	if v := os.Getenv("PIXLAB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PIXLAB_STATE_DIR"); v != "" {
		c.State.Dir = v
	}
	if v := os.Getenv("PIXLAB_OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
}

// applyDefaults populates zero-values with sane defaults.
func applyDefaults(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = "http://127.0.0.1:5000"
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.State.Dir == "" {
		if base, err := os.UserConfigDir(); err == nil {
			c.State.Dir = filepath.Join(base, "pixlab")
		} else {
			c.State.Dir = ".pixlab"
		}
	}
	if c.Verify.IntervalSeconds == 0 {
		c.Verify.IntervalSeconds = 300
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "./outputs"
	}
}

// validate performs basic sanity checks. It does not mutate the config.
func validate(c *Config) error {
	u, err := url.Parse(c.Server.Addr)
	if err != nil || u.Host == "" {
		return errors.New("server.addr is invalid")
	}
	if c.Server.TimeoutSeconds < 1 || c.Server.TimeoutSeconds > 600 {
		return errors.New("server.timeout_seconds is invalid")
	}
	if c.Verify.IntervalSeconds < 5 {
		return errors.New("verify.interval_seconds is invalid")
	}
	if strings.TrimSpace(c.State.Dir) == "" {
		return errors.New("state.dir is required")
	}
	if strings.TrimSpace(c.Output.Dir) == "" {
		return errors.New("output.dir is required")
	}
	return nil
}
