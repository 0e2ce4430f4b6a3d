// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-parser/internal/extraction"
)

// Environment variables read by FromEnv.
const (
	EnvAPIKey      = "GEMINI_API_KEY"
	EnvDatabaseURL = "DATABASE_URL"
)

// apiKeyPlaceholder is the value shipped in sample .env files.
const apiKeyPlaceholder = "your_api_key_here"

// ChainsConfig overrides the strategy order per field. A nil list keeps the default.
type ChainsConfig struct {
	Name   []string `json:"name,omitempty" validate:"omitempty,dive,oneof=ner rules llm"`
	Email  []string `json:"email,omitempty" validate:"omitempty,dive,oneof=regex"`
	Skills []string `json:"skills,omitempty" validate:"omitempty,dive,oneof=llm keywords"`
}

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or CLI flags.
type Config struct {
	// Paths
	InputDir   string `json:"input_dir,omitempty"`
	OutputDir  string `json:"output_dir,omitempty"`
	ArchiveDir string `json:"archive_dir,omitempty"`
	Report     string `json:"report,omitempty"` // XLSX report path

	// Behavior
	NoArchive bool   `json:"no_archive,omitempty"`
	NoLLM     bool   `json:"no_llm,omitempty"`
	NoNER     bool   `json:"no_ner,omitempty"`
	Workers   int    `json:"workers,omitempty" validate:"min=0,max=64"`
	Format    string `json:"format,omitempty" validate:"omitempty,oneof=pdf docx html htm text txt"`

	// Extraction
	Chains              *ChainsConfig `json:"chains,omitempty"`
	SkillKeywords       []string      `json:"skill_keywords,omitempty" validate:"omitempty,dive,required"`
	ModelTimeoutSeconds int           `json:"model_timeout_seconds,omitempty" validate:"min=0,max=600"`
	LiteModel           string        `json:"lite_model,omitempty"`
	StandardModel       string        `json:"standard_model,omitempty"`

	// Services
	APIKey      string `json:"api_key,omitempty"` // Gemini API key
	DatabaseURL string `json:"database_url,omitempty" validate:"omitempty,url"`

	// Output
	Verbose   bool   `json:"verbose,omitempty"`
	LogFormat string `json:"log_format,omitempty" validate:"omitempty,oneof=text json"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		InputDir:   "resumes",
		OutputDir:  "output",
		ArchiveDir: "archive",
		Workers:    1,
		LogFormat:  "text",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names so messages match the config file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
// Required paths are checked by the command after merging flags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config error: %w", err)
		}
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
		return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
	}

	if c.InputDir != "" && c.OutputDir != "" && filepath.Clean(c.InputDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("config error: 'input_dir' and 'output_dir' must differ")
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "oneof":
		return fmt.Sprintf("'%s' must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("'%s' must be at most %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("'%s' must be a URL", field)
	case "required":
		return fmt.Sprintf("'%s' must not be empty", field)
	default:
		return fmt.Sprintf("'%s' failed %s", field, fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.InputDir == "" {
		result.InputDir = defaults.InputDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.ArchiveDir == "" {
		result.ArchiveDir = defaults.ArchiveDir
	}
	if result.Report == "" {
		result.Report = defaults.Report
	}
	if result.Format == "" {
		result.Format = defaults.Format
	}
	if result.LiteModel == "" {
		result.LiteModel = defaults.LiteModel
	}
	if result.StandardModel == "" {
		result.StandardModel = defaults.StandardModel
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.LogFormat == "" {
		result.LogFormat = defaults.LogFormat
	}

	// Int fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.ModelTimeoutSeconds == 0 {
		result.ModelTimeoutSeconds = defaults.ModelTimeoutSeconds
	}

	if result.Chains == nil {
		result.Chains = defaults.Chains
	}
	if len(result.SkillKeywords) == 0 {
		result.SkillKeywords = defaults.SkillKeywords
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// FromEnv fills the API key and database URL from the environment when unset.
// The sample placeholder key counts as unset.
func (c *Config) FromEnv() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(EnvAPIKey)
	}
	if strings.TrimSpace(c.APIKey) == apiKeyPlaceholder {
		c.APIKey = ""
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv(EnvDatabaseURL)
	}
}

// ChainConfig resolves the strategy order, applying NoLLM and NoNER.
func (c *Config) ChainConfig() extraction.ChainConfig {
	chains := extraction.DefaultChainConfig()
	if c.Chains != nil {
		if c.Chains.Name != nil {
			chains.Name = c.Chains.Name
		}
		if c.Chains.Email != nil {
			chains.Email = c.Chains.Email
		}
		if c.Chains.Skills != nil {
			chains.Skills = c.Chains.Skills
		}
	}
	if c.NoLLM {
		chains = chains.Without(extraction.StrategyLLM)
	}
	if c.NoNER {
		chains = chains.Without(extraction.StrategyNER)
	}
	return chains
}

// ModelTimeout returns the per-call model timeout, or zero for the default.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSeconds) * time.Second
}
