// Package config loads the YAML corpus configuration the CLI tools share:
// which books belong to which corpus, and the default matching parameters.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/verbatim/pkg/verbatim/internalerr"
)

// Params are matching parameters.
type Params struct {
	// MinLength is the minimum match length in words for automated scoring.
	MinLength int `yaml:"min_length"`
	// ReviewMinLength is the lower floor used when preparing output for
	// manual labelling. Below five words false positives dominate.
	ReviewMinLength int `yaml:"review_min_length"`
	// Padding is the context width in tokens around rendered matches.
	// Zero enables skipped-character accounting.
	Padding int `yaml:"padding"`
}

// Config is the corpus configuration.
type Config struct {
	// Corpora maps a corpus name (e.g. "publicdomain", "copyright") to its
	// books: book ID -> corpus file path.
	Corpora map[string]map[string]string `yaml:"corpora"`

	Defaults Params `yaml:"defaults"`
}

// Load reads a configuration file and applies parameter defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Defaults.MinLength < 0 || cfg.Defaults.ReviewMinLength < 0 || cfg.Defaults.Padding < 0 {
		return nil, fmt.Errorf("negative matching parameter: %w", internalerr.ErrInvalidConfig)
	}
	if cfg.Defaults.MinLength == 0 {
		cfg.Defaults.MinLength = 8
	}
	if cfg.Defaults.ReviewMinLength == 0 {
		cfg.Defaults.ReviewMinLength = 5
	}

	return &cfg, nil
}

// Corpus returns the book registry for one corpus.
func (c *Config) Corpus(name string) (map[string]string, error) {
	books, ok := c.Corpora[name]
	if !ok {
		return nil, fmt.Errorf("corpus %q: %w", name, internalerr.ErrNotFound)
	}
	return books, nil
}
