package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the mmbench configuration file
// (~/.config/mmbench/config.yaml). Pointer fields distinguish "not set" from
// zero values.
type Config struct {
	Order  *int64 `yaml:"order"`
	Trials *int64 `yaml:"trials"`
	Device *int64 `yaml:"device"`
	Local  *int64 `yaml:"local"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	ServerAddress string `yaml:"server_address"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "mmbench", "config.yaml")
}

// loadConfig reads the config file. Returns a zero Config if the file does
// not exist or cannot be parsed.
func loadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyBenchConfig applies config file defaults to the benchmark flag
// variables when the corresponding CLI flag was not explicitly set.
func applyBenchConfig(c *cli.Command, cfg Config) {
	if cfg.Order != nil && !c.IsSet("order") {
		order = *cfg.Order
	}
	if cfg.Trials != nil && !c.IsSet("trials") {
		trials = *cfg.Trials
	}
	if cfg.Device != nil && !c.IsSet("device") {
		deviceIndex = *cfg.Device
	}
	if cfg.Local != nil && !c.IsSet("local") {
		localSize = *cfg.Local
	}
	applyLoggingConfig(c, cfg)
}

func applyLoggingConfig(c *cli.Command, cfg Config) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
	applyLoggingConfig(c, cfg)
}
