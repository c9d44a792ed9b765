// Package config holds the converter's configuration: the immutable
// analysis options fed by CLI flags, and the ambient settings
// (logging) loaded from environment variables with an optional YAML
// file override.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Peak computation modes accepted by the -peak flag.
const (
	PeakHighestValue   = 1
	PeakAverageOfThree = 2
)

// Defaults for the analysis options, stated in the CLI help text.
const (
	// DefaultBaseCycles 0 means the whole anterior baseline window
	// is averaged.
	DefaultBaseCycles = 0
	DefaultPeakMode   = PeakHighestValue
	// DefaultPostStdSearchSeconds is how far past a treatment's start
	// the peak search extends.
	DefaultPostStdSearchSeconds = 5 * 60.0
)

// Options is the immutable record of analysis parameters passed
// through the pipeline. It is constructed once from CLI flags and
// never mutated.
type Options struct {
	// InputFile is the calcium imaging workbook to convert.
	InputFile string `validate:"required"`
	// BaseCycles is the number of cycles at the end of the anterior
	// baseline window to average for the base; 0 uses the whole
	// window.
	BaseCycles int `validate:"min=0"`
	// PeakMode selects the peak computation: 1 = highest value,
	// 2 = average of the three highest values.
	PeakMode int `validate:"oneof=1 2"`
	// PostStdSearchSeconds bounds the peak search window after a
	// treatment starts.
	PostStdSearchSeconds float64 `validate:"gt=0"`
}

var validate = validator.New()

// Validate checks the options record, returning a descriptive error
// on the first violation.
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			e := errs[0]
			return fmt.Errorf("invalid option %s: failed %q check (value %v)", e.Field(), e.Tag(), e.Value())
		}
		return err
	}
	return nil
}

// DefaultOptions returns an Options record for the given input file
// with all analysis parameters at their documented defaults.
func DefaultOptions(inputFile string) Options {
	return Options{
		InputFile:            inputFile,
		BaseCycles:           DefaultBaseCycles,
		PeakMode:             DefaultPeakMode,
		PostStdSearchSeconds: DefaultPostStdSearchSeconds,
	}
}

// Config represents the ambient application configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stderr"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"calcium_converter.log"`
}

// Load loads ambient configuration from CALCIUM_* environment
// variables, then applies overrides from calcium.yaml in the working
// directory when present.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("CALCIUM", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := "calcium.yaml"
	if _, err := os.Stat(configFile); err == nil {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(cfg, *fileCfg)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeConfigs overlays non-empty file values on top of the env
// configuration.
func mergeConfigs(base, overlay Config) Config {
	if overlay.Logging.Level != "" {
		base.Logging.Level = overlay.Logging.Level
	}
	if overlay.Logging.Format != "" {
		base.Logging.Format = overlay.Logging.Format
	}
	if overlay.Logging.Output != "" {
		base.Logging.Output = overlay.Logging.Output
	}
	if overlay.Logging.FilePath != "" {
		base.Logging.FilePath = overlay.Logging.FilePath
	}
	return base
}
