package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/config"
	"github.com/SoCloseSociety/PinterestBulkPostBot/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage PinPost Bot configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (PINPOST_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as 'pinpost.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources:
  - Command line flags
  - Environment variables
  - Configuration file
  - Default values`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Images folder accessibility`,
	Run: runConfigValidate,
}

// pathCmd represents the config path command
var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which configuration file would be used",
	Run:   runConfigPath,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
	configCmd.AddCommand(pathCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = "pinpost.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# PinPost Bot Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with PINPOST_
# For example: PINPOST_BOARD, PINPOST_IMAGES_FOLDER

# Board to post pins to when the CSV has no board column
# Leave empty to be prompted at run time
board_name: ""

# Folder containing the images to post
images_folder: "bulk_post_pinterest"

# Seconds to wait for the interactive browser login
login_wait_seconds: 60

# Delay between pins in seconds
delay_between_pins: 2

# Run the browser without a window
headless: false

# Browser configuration
browser:
  # User agent string (optional, leave empty for default)
  user_agent: ""
  window_width: 1280
  window_height: 800

# Wait timeouts for each pin-builder step, in seconds
wait:
  upload_timeout_seconds: 30
  field_timeout_seconds: 30
  board_timeout_seconds: 30
  submit_timeout_seconds: 60
  # How often to re-check the page, in milliseconds
  poll_interval_millis: 500

# Rate limiting configuration
rate_limit:
  # Cap on pins posted per hour (0 = no cap)
  pins_per_hour: 0

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"
  # Log file path (optional, leave empty to log to stdout only)
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit the configuration file to match your setup")
	fmt.Println("2. Run 'pinpost config validate' to check the configuration")
	fmt.Println("3. Start posting with 'pinpost post'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Current configuration", "")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (PINPOST_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

// findConfigFile searches the usual locations for a configuration file.
func findConfigFile() string {
	possiblePaths := []string{
		"pinpost.yaml",
		"pinpost.yml",
		"config.json",
		filepath.Join(os.Getenv("HOME"), ".config", "pinpost", "pinpost.yaml"),
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func runConfigPath(cmd *cobra.Command, args []string) {
	path := configFile
	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		ui.PrintInfo("Configuration file", "(none found, defaults apply)")
		return
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	ui.PrintInfo("Configuration file", abs)
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		configFile = findConfigFile()
		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	warnings := []string{}
	errors := []string{}

	if cfg.BoardName == "" {
		warnings = append(warnings, "board_name not set, you will be prompted at run time")
	}

	if info, err := os.Stat(cfg.ImagesFolder); err != nil {
		warnings = append(warnings, fmt.Sprintf("images folder does not exist yet: %s", cfg.ImagesFolder))
	} else if !info.IsDir() {
		errors = append(errors, fmt.Sprintf("images_folder is not a directory: %s", cfg.ImagesFolder))
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Board: %s\n", cfg.BoardName)
	fmt.Printf("  Images folder: %s\n", cfg.ImagesFolder)
	fmt.Printf("  Login wait: %ds\n", cfg.LoginWaitSeconds)
	fmt.Printf("  Delay between pins: %.1fs\n", cfg.DelayBetweenPins)
	fmt.Printf("  Headless: %v\n", cfg.Headless)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
