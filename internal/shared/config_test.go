package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./mikueye.db" {
			t.Errorf("expected database path ./mikueye.db, got %s", config.Database.Path)
		}

		if config.Monitor.IntervalMS != 1500 {
			t.Errorf("expected monitor interval 1500ms, got %d", config.Monitor.IntervalMS)
		}

		if config.Covers.Workers != 6 {
			t.Errorf("expected 6 cover workers, got %d", config.Covers.Workers)
		}

		if config.Credentials.Osu.ClientID != "" {
			t.Errorf("expected empty client_id in example config, got %s", config.Credentials.Osu.ClientID)
		}
	})

	t.Run("Monitor Interval Fallback", func(t *testing.T) {
		m := MonitorConfig{}
		if m.Interval() != 1500*time.Millisecond {
			t.Errorf("expected 1.5s fallback interval, got %s", m.Interval())
		}

		m.IntervalMS = 5000
		if m.Interval() != 5*time.Second {
			t.Errorf("expected 5s interval, got %s", m.Interval())
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[monitor]
interval_ms = 3000
auto_stop = true
workers = 2
rate_limit = 5.0

[credentials.osu]
client_id = "test_client_id"
client_secret = "test_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if !config.Monitor.AutoStop {
			t.Error("expected auto_stop to be true")
		}

		if config.Credentials.Osu.ClientID != "test_client_id" {
			t.Errorf("expected osu client_id test_client_id, got %s", config.Credentials.Osu.ClientID)
		}
	})
}
