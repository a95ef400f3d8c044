// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// wandbEnv maps the W&B client's conventional variables to keys.
var wandbEnv = map[string]string{
	"WANDB_API_KEY":  "api_key",
	"WANDB_BASE_URL": "base_url",
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. the YAML file at path, or at $RUNSTAT_CONFIG if path is empty
//  3. WANDB_API_KEY and WANDB_BASE_URL
//  4. env (prefix RUNSTAT_, e.g. RUNSTAT_PER_PAGE -> per_page)
//  5. flags, keyed like the file
func Load(path string, flags map[string]any) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("RUNSTAT_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	wandb := env.Provider("WANDB_", ".", func(s string) string {
		return wandbEnv[s]
	})
	if err := k.Load(wandb, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	runstat := env.Provider("RUNSTAT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "RUNSTAT_")
		if s == "CONFIG" {
			return ""
		}
		return strings.ToLower(s)
	})
	if err := k.Load(runstat, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	for key, v := range flags {
		if err := k.Set(key, v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Unmarshal into a copy of the defaults.
	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks c for settings no command can use.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.PerPage <= 0:
		return fmt.Errorf("%w: per_page must be positive, got %d", ErrInvalidConfig, c.PerPage)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout must not be negative, got %v", ErrInvalidConfig, c.Timeout)
	case c.HistorySamples <= 0:
		return fmt.Errorf("%w: history_samples must be positive, got %d", ErrInvalidConfig, c.HistorySamples)
	case c.DBDriver == "":
		return fmt.Errorf("%w: db_driver must not be empty", ErrInvalidConfig)
	}
	return nil
}
