package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestConfigUnmarshal(t *testing.T) {
	data := []byte("order: 512\ntrials: 5\nlog_level: debug\nserver_address: :9090\n")

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	if cfg.Order == nil || *cfg.Order != 512 {
		t.Errorf("order not parsed: %v", cfg.Order)
	}
	if cfg.Trials == nil || *cfg.Trials != 5 {
		t.Errorf("trials not parsed: %v", cfg.Trials)
	}
	if cfg.Device != nil {
		t.Errorf("unset device should be nil, got %v", *cfg.Device)
	}
	if cfg.Local != nil {
		t.Errorf("unset local should be nil, got %v", *cfg.Local)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.LogLevel)
	}
	if cfg.ServerAddress != ":9090" {
		t.Errorf("server_address = %q, want :9090", cfg.ServerAddress)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields zero config", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		cfg := loadConfig()
		if cfg != (Config{}) {
			t.Fatalf("expected zero config, got %+v", cfg)
		}
	})

	t.Run("reads values from config dir", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		appDir := filepath.Join(dir, "mmbench")
		if err := os.MkdirAll(appDir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		data := []byte("order: 128\ndevice: 1\n")
		if err := os.WriteFile(filepath.Join(appDir, "config.yaml"), data, 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg := loadConfig()
		if cfg.Order == nil || *cfg.Order != 128 {
			t.Errorf("order not loaded: %v", cfg.Order)
		}
		if cfg.Device == nil || *cfg.Device != 1 {
			t.Errorf("device not loaded: %v", cfg.Device)
		}
	})

	t.Run("malformed file yields zero config", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", dir)
		appDir := filepath.Join(dir, "mmbench")
		if err := os.MkdirAll(appDir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(appDir, "config.yaml"), []byte("order: [oops"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		if cfg := loadConfig(); cfg != (Config{}) {
			t.Fatalf("expected zero config for malformed file, got %+v", cfg)
		}
	})
}
