// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the settings shared by the runstat commands.
//
// Settings are layered, lowest precedence first: defaults, a YAML
// file, environment variables, and command-line flags.
package config

import (
	"time"
)

// Config holds the settings shared by the commands.
type Config struct {
	// APIKey authenticates requests to the W&B server.
	APIKey string `koanf:"api_key"`

	// BaseURL is the W&B server.
	BaseURL string `koanf:"base_url"`

	// PerPage is the number of runs fetched per request.
	PerPage int `koanf:"per_page"`

	// Timeout bounds a whole command, including all requests.
	// Zero means no limit.
	Timeout time.Duration `koanf:"timeout"`

	// HistorySamples is the number of history samples fetched per
	// run when history is needed.
	HistorySamples int `koanf:"history_samples"`

	// DBDriver and DB are the database/sql driver and data source
	// of the run store.
	DBDriver string `koanf:"db_driver"`
	DB       string `koanf:"db"`

	// Baselines is a YAML file replacing the built-in reference
	// scores.
	Baselines string `koanf:"baselines"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		BaseURL:        "https://api.wandb.ai",
		PerPage:        50,
		HistorySamples: 500,
		DBDriver:       "sqlite3",
		DB:             "runstat.db",
	}
}
