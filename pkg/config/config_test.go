package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BoardName != "" {
		t.Errorf("expected empty default board, got %q", cfg.BoardName)
	}
	if cfg.LoginWaitSeconds != 60 {
		t.Errorf("expected login wait 60, got %d", cfg.LoginWaitSeconds)
	}
	if cfg.DelayBetweenPins != 2 {
		t.Errorf("expected delay 2, got %v", cfg.DelayBetweenPins)
	}
	if cfg.ImagesFolder != "bulk_post_pinterest" {
		t.Errorf("expected default images folder, got %q", cfg.ImagesFolder)
	}
	if cfg.Headless {
		t.Error("expected headless off by default")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	envVars := map[string]string{
		"PINPOST_BOARD":              "Recipes",
		"PINPOST_IMAGES_FOLDER":      "/tmp/pins",
		"PINPOST_LOGIN_WAIT_SECONDS": "120",
		"PINPOST_DELAY_BETWEEN_PINS": "3.5",
		"PINPOST_HEADLESS":           "true",
		"PINPOST_LOG_LEVEL":          "debug",
	}
	for k, v := range envVars {
		t.Setenv(k, v)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFromEnv(); err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.BoardName != "Recipes" {
		t.Errorf("expected board Recipes, got %q", cfg.BoardName)
	}
	if cfg.ImagesFolder != "/tmp/pins" {
		t.Errorf("expected images folder /tmp/pins, got %q", cfg.ImagesFolder)
	}
	if cfg.LoginWaitSeconds != 120 {
		t.Errorf("expected login wait 120, got %d", cfg.LoginWaitSeconds)
	}
	if cfg.DelayBetweenPins != 3.5 {
		t.Errorf("expected delay 3.5, got %v", cfg.DelayBetweenPins)
	}
	if !cfg.Headless {
		t.Error("expected headless true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pinpost.yaml")
	content := `
board_name: Travel
login_wait_seconds: 90
delay_between_pins: 1.5
images_folder: ./photos
headless: true
wait:
  submit_timeout_seconds: 45
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if cfg.BoardName != "Travel" {
		t.Errorf("expected board Travel, got %q", cfg.BoardName)
	}
	if cfg.LoginWaitSeconds != 90 {
		t.Errorf("expected login wait 90, got %d", cfg.LoginWaitSeconds)
	}
	if cfg.DelayBetweenPins != 1.5 {
		t.Errorf("expected delay 1.5, got %v", cfg.DelayBetweenPins)
	}
	if cfg.Wait.SubmitTimeoutSeconds != 45 {
		t.Errorf("expected submit timeout 45, got %d", cfg.Wait.SubmitTimeoutSeconds)
	}
	// Defaults survive for fields the file omits.
	if cfg.Wait.UploadTimeoutSeconds != 30 {
		t.Errorf("expected upload timeout default 30, got %d", cfg.Wait.UploadTimeoutSeconds)
	}
}

func TestLoadFromFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"board_name": "Food", "login_wait_seconds": 30, "delay_between_pins": 2, "images_folder": "bulk_post_pinterest", "headless": false}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed for JSON: %v", err)
	}

	if cfg.BoardName != "Food" {
		t.Errorf("expected board Food, got %q", cfg.BoardName)
	}
	if cfg.LoginWaitSeconds != 30 {
		t.Errorf("expected login wait 30, got %d", cfg.LoginWaitSeconds)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:    "valid default",
			modify:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "empty images folder",
			modify:  func(c *Config) { c.ImagesFolder = "" },
			wantErr: "images folder is required",
		},
		{
			name:    "zero login wait",
			modify:  func(c *Config) { c.LoginWaitSeconds = 0 },
			wantErr: "login wait must be positive",
		},
		{
			name:    "negative delay",
			modify:  func(c *Config) { c.DelayBetweenPins = -1 },
			wantErr: "delay between pins cannot be negative",
		},
		{
			name:    "negative rate limit",
			modify:  func(c *Config) { c.RateLimit.PinsPerHour = -5 },
			wantErr: "pins per hour cannot be negative",
		},
		{
			name:    "zero poll interval",
			modify:  func(c *Config) { c.Wait.PollIntervalMillis = 0 },
			wantErr: "poll interval must be positive",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"board":         "Gardening",
		"images":        "./garden",
		"headless":      true,
		"delay":         0.5,
		"login-wait":    30,
		"pins-per-hour": 100,
	})

	if cfg.BoardName != "Gardening" {
		t.Errorf("expected board Gardening, got %q", cfg.BoardName)
	}
	if cfg.ImagesFolder != "./garden" {
		t.Errorf("expected images folder ./garden, got %q", cfg.ImagesFolder)
	}
	if !cfg.Headless {
		t.Error("expected headless true")
	}
	if cfg.DelayBetweenPins != 0.5 {
		t.Errorf("expected delay 0.5, got %v", cfg.DelayBetweenPins)
	}
	if cfg.LoginWaitSeconds != 30 {
		t.Errorf("expected login wait 30, got %d", cfg.LoginWaitSeconds)
	}
	if cfg.RateLimit.PinsPerHour != 100 {
		t.Errorf("expected pins per hour 100, got %d", cfg.RateLimit.PinsPerHour)
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DelayBetweenPins = 1.5

	if got := cfg.PinDelay().Milliseconds(); got != 1500 {
		t.Errorf("expected 1500ms pin delay, got %dms", got)
	}
	if got := cfg.LoginWait().Seconds(); got != 60 {
		t.Errorf("expected 60s login wait, got %vs", got)
	}
	if got := cfg.Wait.PollInterval().Milliseconds(); got != 500 {
		t.Errorf("expected 500ms poll interval, got %dms", got)
	}
}
