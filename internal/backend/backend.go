// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package backend opens run sources by name.
package backend

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/rlperf/runstat/internal/config"
	"github.com/rlperf/runstat/storage"
	"github.com/rlperf/runstat/storage/db"
	_ "github.com/rlperf/runstat/storage/db/sqlite3"
	"github.com/rlperf/runstat/storage/local"
	"github.com/rlperf/runstat/storage/wandb"
)

// Names lists the backends Open accepts.
var Names = []string{"wandb", "file", "sqlite", "mysql"}

// Options configures Open.
type Options struct {
	// History requests per-step history with each run.
	History bool

	Logger *zap.Logger
}

// Open returns the named source. The returned Closer releases the
// source and is never nil. Unknown names return an error wrapping
// storage.ErrNotImplemented.
func Open(name string, cfg *config.Config, opts Options) (storage.Source, io.Closer, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	switch name {
	case "wandb":
		c := &wandb.Client{
			BaseURL:        cfg.BaseURL,
			APIKey:         cfg.APIKey,
			HTTPClient:     &http.Client{},
			PerPage:        cfg.PerPage,
			History:        opts.History,
			HistorySamples: cfg.HistorySamples,
			Logger:         log.Named("wandb"),
		}
		return c, nopCloser{}, nil
	case "file":
		return new(local.Source), nopCloser{}, nil
	case "sqlite", "mysql":
		driver := "sqlite3"
		if name == "mysql" {
			driver = "mysql"
		}
		d, err := db.OpenSQL(driver, cfg.DB)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s run store: %w", name, err)
		}
		return d, d, nil
	}
	return nil, nil, fmt.Errorf("backend %q (want %s): %w", name, strings.Join(Names, ", "), storage.ErrNotImplemented)
}

// OpenStore opens the run store configured by cfg.DBDriver and cfg.DB.
func OpenStore(cfg *config.Config) (*db.DB, error) {
	d, err := db.OpenSQL(cfg.DBDriver, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	return d, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
