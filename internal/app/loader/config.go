package loader

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds loader pipeline settings.
type Config struct {
	FrequencyPath string `yaml:"frequency_path"  env:"LOADER_FREQUENCY_PATH"`
	WordNetPath   string `yaml:"wordnet_path"    env:"LOADER_WORDNET_PATH"`
	ExportPath    string `yaml:"export_path"     env:"LOADER_EXPORT_PATH"`
	LanguageCode  string `yaml:"language_code"   env:"LOADER_LANGUAGE_CODE"   env-default:"en"`
	LanguageName  string `yaml:"language_name"   env:"LOADER_LANGUAGE_NAME"   env-default:"English"`
	BatchSize     int    `yaml:"batch_size"      env:"LOADER_BATCH_SIZE"      env-default:"1000"`
	MinWordLength int    `yaml:"min_word_length" env:"LOADER_MIN_WORD_LENGTH" env-default:"2"`
	Workers       int    `yaml:"workers"         env:"LOADER_WORKERS"         env-default:"4"`
	SampleSize    int    `yaml:"sample_size"     env:"LOADER_SAMPLE_SIZE"     env-default:"10"`
	ClearExisting bool   `yaml:"clear_existing"  env:"LOADER_CLEAR_EXISTING"`
	DryRun        bool   `yaml:"dry_run"         env:"LOADER_DRY_RUN"`
}

// LoadConfig reads loader configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("loader config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("loader config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("loader config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loader config: %w", err)
	}
	return &cfg, nil
}

// Validate checks numeric bounds and the language code.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.MinWordLength < 0 {
		return fmt.Errorf("min_word_length must be >= 0 (got %d)", c.MinWordLength)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("sample_size must be >= 0 (got %d)", c.SampleSize)
	}
	if c.LanguageCode == "" || len(c.LanguageCode) > 5 {
		return fmt.Errorf("language_code must be 1-5 characters (got %q)", c.LanguageCode)
	}
	return nil
}
