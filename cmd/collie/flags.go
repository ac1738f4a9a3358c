package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	InputPath   string
	OutputPath  string
	ParamsPath  string
	Severity    string
	ReportStyle string
	Communities bool
	Metrics     bool
	LogLevel    string
	LogFormat   string
	Debug       bool
	ShowVersion bool
	ShowHelp    bool
	Validate    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("COLLIE_CONFIG", ""),
		"Path to configuration file, empty for defaults (env: COLLIE_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("COLLIE_CONFIG", ""),
		"Path to configuration file, empty for defaults (env: COLLIE_CONFIG)")

	flag.StringVar(&cfg.InputPath, "input",
		getEnv("COLLIE_INPUT", "-"),
		"Entity records JSON file, '-' for stdin (env: COLLIE_INPUT)")

	flag.StringVar(&cfg.InputPath, "i",
		getEnv("COLLIE_INPUT", "-"),
		"Entity records JSON file, '-' for stdin (env: COLLIE_INPUT)")

	flag.StringVar(&cfg.OutputPath, "out",
		getEnv("COLLIE_OUT", "out.cypher"),
		"Cypher script output path (env: COLLIE_OUT)")

	flag.StringVar(&cfg.OutputPath, "o",
		getEnv("COLLIE_OUT", "out.cypher"),
		"Cypher script output path (env: COLLIE_OUT)")

	flag.StringVar(&cfg.ParamsPath, "params",
		getEnv("COLLIE_PARAMS", ""),
		"Parameter payload output path, defaults to <out>.params.json (env: COLLIE_PARAMS)")

	flag.StringVar(&cfg.Severity, "severity",
		getEnv("COLLIE_SEVERITY", ""),
		"Override validation severity: ignore, warn, raise (env: COLLIE_SEVERITY)")

	flag.StringVar(&cfg.ReportStyle, "report",
		getEnv("COLLIE_REPORT", ""),
		"Render a markdown report to stdout: card, detailed, table, narrative (env: COLLIE_REPORT)")

	flag.BoolVar(&cfg.Communities, "communities",
		getEnvBool("COLLIE_COMMUNITIES", false),
		"Detect communities in the compiled graph and log them (env: COLLIE_COMMUNITIES)")

	flag.BoolVar(&cfg.Metrics, "metrics",
		getEnvBool("COLLIE_METRICS", false),
		"Print a metrics snapshot to stderr after the pass (env: COLLIE_METRICS)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("COLLIE_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: COLLIE_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("COLLIE_LOG_FORMAT", "text"),
		"Log format: json, text (env: COLLIE_LOG_FORMAT)")

	flag.BoolVar(&cfg.Debug, "debug",
		getEnvBool("COLLIE_DEBUG", false),
		"Enable debug mode (env: COLLIE_DEBUG)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	// Custom usage
	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	// Override log level if debug is set
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if cfg.InputPath != "-" {
		if _, err := os.Stat(cfg.InputPath); err != nil {
			return fmt.Errorf("input file not found: %s", cfg.InputPath)
		}
	}

	if cfg.Severity != "" && !contains([]string{"ignore", "warn", "raise"}, cfg.Severity) {
		return fmt.Errorf("invalid severity: %s", cfg.Severity)
	}

	if cfg.ReportStyle != "" &&
		!contains([]string{"card", "detailed", "table", "narrative"}, cfg.ReportStyle) {
		return fmt.Errorf("invalid report style: %s", cfg.ReportStyle)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - CIDOC CRM relationship compiler

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Compile a batch of entity records into a Cypher script
  %s --input=entities.json --out=batch.cypher

  # Abort on the first constraint violation
  %s --input=entities.json --severity=raise

  # Render the batch as markdown cards instead of loading it
  %s --input=entities.json --report=card

  # Validate configuration only
  %s --config=collie.json --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
