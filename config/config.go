// Package config loads and validates the run configuration for compilation
// passes. Configuration is a single JSON document validated against an
// embedded JSON Schema before any field is read, so a malformed file fails
// fast with a field-level message instead of surfacing later as odd
// behavior.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/DecisionNerd/collie/errors"
)

// Config is the complete run configuration.
type Config struct {
	// Severity is the validation policy: ignore, warn, or raise.
	Severity string `json:"severity"`

	// BatchSize bounds the script generator's UNWIND chunks.
	BatchSize int `json:"batch_size"`

	// IncludeConstraints controls the script's constraint prologue.
	IncludeConstraints bool `json:"include_constraints"`

	// Workers sets the expansion worker count; values below two keep
	// expansion sequential.
	Workers int `json:"workers"`

	// OntologyPath points at a JSON ontology document extending or
	// replacing the built-in core tables. Empty means core only.
	OntologyPath string `json:"ontology_path,omitempty"`

	Extraction ExtractionConfig `json:"extraction"`
}

// ExtractionConfig configures the external text-to-entity service client.
type ExtractionConfig struct {
	// Model names the inference model used for extraction.
	Model string `json:"model,omitempty"`

	// APIKeyEnv names the environment variable holding the service
	// credential. The key itself never appears in configuration files.
	APIKeyEnv string `json:"api_key_env,omitempty"`

	// MinConfidence discards extracted claims below this threshold.
	MinConfidence float64 `json:"min_confidence,omitempty"`

	// CacheSize bounds the extraction response cache. Zero disables it.
	CacheSize int `json:"cache_size,omitempty"`
}

const configSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"severity": {
			"type": "string",
			"enum": ["ignore", "warn", "raise"]
		},
		"batch_size": {
			"type": "integer",
			"minimum": 1
		},
		"include_constraints": {
			"type": "boolean"
		},
		"workers": {
			"type": "integer",
			"minimum": 0
		},
		"ontology_path": {
			"type": "string"
		},
		"extraction": {
			"type": "object",
			"properties": {
				"model": {"type": "string"},
				"api_key_env": {"type": "string"},
				"min_confidence": {
					"type": "number",
					"minimum": 0,
					"maximum": 1
				},
				"cache_size": {
					"type": "integer",
					"minimum": 0
				}
			},
			"additionalProperties": false
		}
	},
	"additionalProperties": false
}`

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Severity:           "warn",
		BatchSize:          1000,
		IncludeConstraints: true,
		Workers:            1,
		Extraction: ExtractionConfig{
			Model:         "gpt-4o-mini",
			APIKeyEnv:     "OPENAI_API_KEY",
			MinConfidence: 0.5,
			CacheSize:     256,
		},
	}
}

// Parse validates raw JSON against the schema and merges it over defaults.
func Parse(data []byte) (*Config, error) {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, errors.WrapSpec(err, "Config", "Parse", "schema validation")
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return nil, errors.WrapSpec(
			fmt.Errorf("%w: %s: %s", errors.ErrInvalidConfig, first.Field(), first.Description()),
			"Config", "Parse", "schema validation")
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.WrapSpec(err, "Config", "Parse", "document parsing")
	}
	return cfg, nil
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapSpec(
			fmt.Errorf("%w: %s: %v", errors.ErrMissingConfig, path, err),
			"Config", "Load", "file reading")
	}
	return Parse(data)
}

// APIKey resolves the extraction credential from the environment. An empty
// result means extraction is unavailable, not misconfigured: the compiler
// core never requires it.
func (c *Config) APIKey() string {
	if c.Extraction.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Extraction.APIKeyEnv)
}
