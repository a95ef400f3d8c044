// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 provides the sqlite3 driver for the run store. It
// must be imported instead of go-sqlite3 to ensure foreign keys are
// honored and in-memory databases are not split across connections.
package sqlite3

import (
	"database/sql"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/rlperf/runstat/storage/db"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(sdb *sql.DB) error {
		sdb.Driver().(*sqlite3.SQLiteDriver).ConnectHook = func(c *sqlite3.SQLiteConn) error {
			_, err := c.Exec("PRAGMA foreign_keys = ON;", nil)
			return err
		}
		// Every connection to ":memory:" opens a new database.
		sdb.SetMaxOpenConns(1)
		return nil
	})
}
