package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the bulk pin poster.
// Unknown fields in the config file are ignored.
type Config struct {
	// BoardName is the default board pins are filed under when a CSV row
	// does not name one. Empty means the post command will ask for it.
	BoardName string `yaml:"board_name" json:"board_name"`

	// LoginWaitSeconds bounds the manual-login wait.
	LoginWaitSeconds int `yaml:"login_wait_seconds" json:"login_wait_seconds"`

	// DelayBetweenPins is the pacing delay applied after every pin, in
	// seconds. Fractions are allowed.
	DelayBetweenPins float64 `yaml:"delay_between_pins" json:"delay_between_pins"`

	// ImagesFolder is the folder scanned for images to post.
	ImagesFolder string `yaml:"images_folder" json:"images_folder"`

	// Headless runs Chrome without a visible window.
	Headless bool `yaml:"headless" json:"headless"`

	// Browser holds Chrome launch options.
	Browser BrowserConfig `yaml:"browser" json:"browser"`

	// Wait holds pin-builder synchronization timeouts.
	Wait WaitConfig `yaml:"wait" json:"wait"`

	// RateLimit caps posting volume.
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// BrowserConfig holds Chrome launch options.
type BrowserConfig struct {
	UserAgent    string `yaml:"user_agent" json:"user_agent"`
	WindowWidth  int    `yaml:"window_width" json:"window_width"`
	WindowHeight int    `yaml:"window_height" json:"window_height"`
}

// WaitConfig holds the timeouts for each pin-builder synchronization point,
// in seconds, and the poll interval in milliseconds.
type WaitConfig struct {
	UploadTimeoutSeconds int `yaml:"upload_timeout_seconds" json:"upload_timeout_seconds"`
	FieldTimeoutSeconds  int `yaml:"field_timeout_seconds" json:"field_timeout_seconds"`
	BoardTimeoutSeconds  int `yaml:"board_timeout_seconds" json:"board_timeout_seconds"`
	SubmitTimeoutSeconds int `yaml:"submit_timeout_seconds" json:"submit_timeout_seconds"`
	PollIntervalMillis   int `yaml:"poll_interval_millis" json:"poll_interval_millis"`
}

// RateLimitConfig caps posting volume. Zero disables the cap; the fixed
// inter-pin delay still applies.
type RateLimitConfig struct {
	PinsPerHour int `yaml:"pins_per_hour" json:"pins_per_hour"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		BoardName:        "",
		LoginWaitSeconds: 60,
		DelayBetweenPins: 2,
		ImagesFolder:     "bulk_post_pinterest",
		Headless:         false,
		Browser: BrowserConfig{
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
		Wait: WaitConfig{
			UploadTimeoutSeconds: 30,
			FieldTimeoutSeconds:  30,
			BoardTimeoutSeconds:  30,
			SubmitTimeoutSeconds: 60,
			PollIntervalMillis:   500,
		},
		RateLimit: RateLimitConfig{
			PinsPerHour: 0,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoginWait returns the manual-login deadline as a duration.
func (c *Config) LoginWait() time.Duration {
	return time.Duration(c.LoginWaitSeconds) * time.Second
}

// PinDelay returns the inter-pin pacing delay as a duration.
func (c *Config) PinDelay() time.Duration {
	return time.Duration(c.DelayBetweenPins * float64(time.Second))
}

// UploadTimeout returns the upload-thumbnail wait bound.
func (w WaitConfig) UploadTimeout() time.Duration {
	return time.Duration(w.UploadTimeoutSeconds) * time.Second
}

// FieldTimeout returns the field-population wait bound.
func (w WaitConfig) FieldTimeout() time.Duration {
	return time.Duration(w.FieldTimeoutSeconds) * time.Second
}

// BoardTimeout returns the board-picker wait bound.
func (w WaitConfig) BoardTimeout() time.Duration {
	return time.Duration(w.BoardTimeoutSeconds) * time.Second
}

// SubmitTimeout returns the publish-confirmation wait bound.
func (w WaitConfig) SubmitTimeout() time.Duration {
	return time.Duration(w.SubmitTimeoutSeconds) * time.Second
}

// PollInterval returns the UI poll interval.
func (w WaitConfig) PollInterval() time.Duration {
	return time.Duration(w.PollIntervalMillis) * time.Millisecond
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if board := os.Getenv("PINPOST_BOARD"); board != "" {
		c.BoardName = board
	}
	if folder := os.Getenv("PINPOST_IMAGES_FOLDER"); folder != "" {
		c.ImagesFolder = folder
	}
	if wait := os.Getenv("PINPOST_LOGIN_WAIT_SECONDS"); wait != "" {
		var val int
		fmt.Sscanf(wait, "%d", &val)
		if val > 0 {
			c.LoginWaitSeconds = val
		}
	}
	if delay := os.Getenv("PINPOST_DELAY_BETWEEN_PINS"); delay != "" {
		var val float64
		fmt.Sscanf(delay, "%f", &val)
		if val >= 0 {
			c.DelayBetweenPins = val
		}
	}
	if headless := os.Getenv("PINPOST_HEADLESS"); headless != "" {
		c.Headless = strings.ToLower(headless) == "true"
	}
	if logLevel := os.Getenv("PINPOST_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file. YAML is a
// superset of JSON, so the original config.json format parses unchanged.
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	// Check in order of precedence
	locations := []string{
		"pinpost.yaml",
		"pinpost.yml",
		"config.json",
		filepath.Join(os.Getenv("HOME"), ".config", "pinpost", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "pinpost", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".pinpost.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.ImagesFolder == "" {
		errs = append(errs, errors.New("images folder is required"))
	}
	if c.LoginWaitSeconds <= 0 {
		errs = append(errs, errors.New("login wait must be positive"))
	}
	if c.DelayBetweenPins < 0 {
		errs = append(errs, errors.New("delay between pins cannot be negative"))
	}
	if c.RateLimit.PinsPerHour < 0 {
		errs = append(errs, errors.New("pins per hour cannot be negative"))
	}

	if c.Wait.UploadTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("upload timeout must be positive"))
	}
	if c.Wait.FieldTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("field timeout must be positive"))
	}
	if c.Wait.BoardTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("board timeout must be positive"))
	}
	if c.Wait.SubmitTimeoutSeconds <= 0 {
		errs = append(errs, errors.New("submit timeout must be positive"))
	}
	if c.Wait.PollIntervalMillis <= 0 {
		errs = append(errs, errors.New("poll interval must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if board, ok := flags["board"].(string); ok && board != "" {
		c.BoardName = board
	}
	if folder, ok := flags["images"].(string); ok && folder != "" {
		c.ImagesFolder = folder
	}
	if headless, ok := flags["headless"].(bool); ok {
		c.Headless = headless
	}
	if delay, ok := flags["delay"].(float64); ok && delay >= 0 {
		c.DelayBetweenPins = delay
	}
	if wait, ok := flags["login-wait"].(int); ok && wait > 0 {
		c.LoginWaitSeconds = wait
	}
	if perHour, ok := flags["pins-per-hour"].(int); ok && perHour > 0 {
		c.RateLimit.PinsPerHour = perHour
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".pinpost.env"))

	// Start with defaults
	config := DefaultConfig()

	// Load from config file
	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Override with environment variables (includes values from .env)
	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Override with command line flags
	config.MergeCommandLineFlags(flags)

	// Validate final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
