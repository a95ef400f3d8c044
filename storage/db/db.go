// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores snapshots of runs in a SQL database.
//
// Runs are saved in named collections. Saving a collection replaces
// any runs previously saved under the same name. A DB is a
// storage.Source whose query paths are collection names.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/rlperf/runstat/runfmt"
	"github.com/rlperf/runstat/storage"
)

// DB is a run store backed by a SQL database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun *sql.Stmt
	selectRun *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to register a ConnectHook.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Collections (
	Name VARCHAR(255) PRIMARY KEY,
	Saved BIGINT
);
CREATE TABLE IF NOT EXISTS Runs (
	Collection VARCHAR(255),
	Seq BIGINT UNSIGNED,
	Name VARCHAR(1024),
	State VARCHAR(64),
	Content {{if .sqlite3}}BLOB{{else}}LONGBLOB{{end}},
	PRIMARY KEY (Collection, Seq),
	FOREIGN KEY (Collection) REFERENCES Collections(Name) ON UPDATE CASCADE ON DELETE CASCADE
);
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertRun, err = db.sql.Prepare("INSERT INTO Runs(Collection, Seq, Name, State, Content) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.selectRun, err = db.sql.Prepare("SELECT Content FROM Runs WHERE Collection = ? ORDER BY Seq")
	if err != nil {
		return err
	}
	return nil
}

// now is overridden by tests.
var now = time.Now

// An Upload is a collection being saved. Runs inserted into an Upload
// become visible when it is committed, replacing any previous
// collection with the same name.
type Upload struct {
	// Name is the collection name.
	Name string

	// seq is the index of the next run to insert.
	seq int64
	tx  *sql.Tx
	db  *DB
}

// NewUpload starts saving the collection name.
func (db *DB) NewUpload(ctx context.Context, name string) (*Upload, error) {
	if name == "" {
		return nil, fmt.Errorf("empty collection name")
	}
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	// Runs are deleted explicitly since sqlite only cascades with
	// foreign keys enabled.
	for _, q := range []string{
		"DELETE FROM Runs WHERE Collection = ?",
		"DELETE FROM Collections WHERE Name = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, name); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO Collections(Name, Saved) VALUES (?, ?)", name, now().Unix()); err != nil {
		tx.Rollback()
		return nil, err
	}
	return &Upload{Name: name, tx: tx, db: db}, nil
}

// InsertRun adds a run to the upload.
func (u *Upload) InsertRun(ctx context.Context, r *runfmt.Run) error {
	var buf bytes.Buffer
	if err := runfmt.NewWriter(&buf).Write(r); err != nil {
		return err
	}
	content := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if _, err := u.tx.StmtContext(ctx, u.db.insertRun).ExecContext(ctx, u.Name, u.seq, r.Name, string(r.State), content); err != nil {
		return err
	}
	u.seq++
	return nil
}

// Len returns the number of runs inserted so far.
func (u *Upload) Len() int {
	return int(u.seq)
}

// Commit makes the upload visible.
func (u *Upload) Commit() error {
	return u.tx.Commit()
}

// Abort discards the upload, leaving any previous collection with the
// same name in place.
func (u *Upload) Abort() error {
	return u.tx.Rollback()
}

// Query returns the runs saved in the named collection, in the order
// they were inserted.
func (db *DB) Query(ctx context.Context, name string) *storage.Query {
	var n int
	err := db.sql.QueryRowContext(ctx, "SELECT COUNT(*) FROM Collections WHERE Name = ?", name).Scan(&n)
	if err != nil {
		return storage.ErrQuery(err)
	}
	if n == 0 {
		return storage.ErrQuery(fmt.Errorf("collection %q not found", name))
	}
	rows, err := db.selectRun.QueryContext(ctx, name)
	if err != nil {
		return storage.ErrQuery(err)
	}
	return storage.NewQuery(func() (*runfmt.Run, error) {
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, err
		}
		rd := runfmt.NewReader(bytes.NewReader(content), name)
		if !rd.Scan() {
			if err := rd.Err(); err != nil {
				return nil, err
			}
			return nil, fmt.Errorf("collection %q: empty run record", name)
		}
		return rd.Run(), nil
	}, rows.Close)
}

// A Collection describes a saved collection.
type Collection struct {
	Name  string
	Saved time.Time
	Runs  int
}

// Collections lists the saved collections, sorted by name.
func (db *DB) Collections(ctx context.Context) ([]Collection, error) {
	rows, err := db.sql.QueryContext(ctx, `
SELECT c.Name, c.Saved, COUNT(r.Seq)
FROM Collections c LEFT JOIN Runs r ON r.Collection = c.Name
GROUP BY c.Name, c.Saved
ORDER BY c.Name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var cs []Collection
	for rows.Next() {
		var c Collection
		var saved int64
		if err := rows.Scan(&c.Name, &saved, &c.Runs); err != nil {
			return nil, err
		}
		c.Saved = time.Unix(saved, 0).UTC()
		cs = append(cs, c)
	}
	return cs, rows.Err()
}

// CountRuns returns the number of runs in all collections.
func (db *DB) CountRuns() (int, error) {
	var n int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM Runs").Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.selectRun.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
