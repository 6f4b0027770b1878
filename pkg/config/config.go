// Package config loads the application settings from yaml.
package config

import (
	"fmt"
	"strings"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
)

// Defaults applied when a key is missing.
const (
	DefaultAddr     = ":8000"
	DefaultDBPath   = "todo.sqlite"
	DefaultLogLevel = "info"
	DefaultLogFile  = "todo-tracker.log"
)

// Config holds the settings shared by the serve and tui commands.
type Config struct {
	Addr     string `config:"addr"`
	DBPath   string `config:"db_path"`
	LogLevel string `config:"log_level"`
	// LogFile is where the terminal viewer logs; the server logs to stderr.
	LogFile string `config:"log_file"`
}

// NewConfig reads path and, when present, the sibling ".local.yml" overlay. Values may
// reference environment variables as ${VAR}. A missing file yields the defaults.
func NewConfig(path string) (*Config, error) {
	var appConfig Config

	c := config.New("todo-tracker")

	c.WithOptions(config.ParseEnv, func(opt *config.Options) {
		opt.DecoderConfig.TagName = "config"
	})

	c.AddDriver(yaml.Driver)

	if path != "" {
		if err := c.LoadExists(path); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", path, err)
		}

		local := strings.Replace(path, ".yml", ".local.yml", 1)
		if err := c.LoadExists(local); err != nil {
			return nil, fmt.Errorf("error loading config %s: %w", local, err)
		}
	}

	if len(c.Data()) > 0 {
		if err := c.BindStruct("", &appConfig); err != nil {
			return nil, fmt.Errorf("error binding config: %w", err)
		}
	}

	appConfig.applyDefaults()

	return &appConfig, nil
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}

	if c.DBPath == "" {
		c.DBPath = DefaultDBPath
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}

	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
}
