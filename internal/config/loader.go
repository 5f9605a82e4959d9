package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/navne/internal/domain/gender"
)

const (
	envPrefix     = "NAVNE_"
	envConfigFile = "NAVNE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if NAVNE_CONFIG is set
//  3. env (prefix NAVNE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// NAVNE_DATA_DIR -> data_dir; underscores are kept to match the koanf tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FemaleFile == "" || c.MaleFile == "" || c.UnisexFile == "":
		return fmt.Errorf("%w: name list file names must not be empty", ErrInvalidConfig)
	case c.MaxBatchSize <= 0:
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalidConfig)
	}
	if _, err := gender.EncodingByName(c.Encoding); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LookupOptions translates the name list settings into gender.Load options.
func (c *Config) LookupOptions() ([]gender.Option, error) {
	enc, err := gender.EncodingByName(c.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return []gender.Option{
		gender.WithDir(c.DataDir),
		gender.WithFiles(c.FemaleFile, c.MaleFile, c.UnisexFile),
		gender.WithEncoding(enc),
	}, nil
}
