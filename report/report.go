// Package report exports switching tables for downstream tools, as JSON
// documents or as rows in a SQLite database.
package report

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

// Meta describes the run that produced a table.
type Meta struct {
	RunID    string `json:"run_id"`
	Patterns int    `json:"patterns"`
	Seed     uint64 `json:"seed"`
}

// NewMeta stamps a fresh run identifier.
func NewMeta(patterns int, seed uint64) Meta {
	return Meta{RunID: uuid.NewString(), Patterns: patterns, Seed: seed}
}

// Entry is the switching value of one node.
type Entry struct {
	ID        int     `json:"id"`
	Kind      string  `json:"kind"`
	Switching float64 `json:"switching"`
}

// Document is the JSON form of a table.
type Document struct {
	Meta
	Circuit string  `json:"circuit"`
	Nodes   []Entry `json:"nodes"`
}

// Entries lists the inputs of c in input order, then its AND nodes in
// dependency order, with their values from t.
func Entries(c *aig.Circuit, t switching.Table) ([]Entry, error) {
	if len(t) != c.NumObjects() {
		return nil, fmt.Errorf("table has %d entries, circuit %s needs %d: %w",
			len(t), c.Name, c.NumObjects(), switching.ErrInvalidArgument)
	}
	out := make([]Entry, 0, len(c.Inputs())+c.NumAnds())
	for _, id := range c.Inputs() {
		out = append(out, Entry{ID: id, Kind: aig.KindInput.String(), Switching: t[id]})
	}
	for _, id := range c.DFS() {
		out = append(out, Entry{ID: id, Kind: aig.KindAnd.String(), Switching: t[id]})
	}
	return out, nil
}

// WriteJSON writes t as a single JSON document.
func WriteJSON(w io.Writer, c *aig.Circuit, t switching.Table, meta Meta) error {
	entries, err := Entries(c, t)
	if err != nil {
		return err
	}
	doc := Document{Meta: meta, Circuit: c.Name, Nodes: entries}
	b, err := sonnet.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode switching report: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write switching report: %w", err)
	}
	return nil
}

const schema = `CREATE TABLE IF NOT EXISTS switching (
	run_id   TEXT    NOT NULL,
	circuit  TEXT    NOT NULL,
	patterns INTEGER NOT NULL,
	seed     INTEGER NOT NULL,
	node_id  INTEGER NOT NULL,
	kind     TEXT    NOT NULL,
	value    REAL    NOT NULL,
	PRIMARY KEY (run_id, node_id)
)`

// WriteSQLite appends the entries of t to the switching table of the
// database at path, creating both if needed. The whole export is one
// transaction.
func WriteSQLite(path string, c *aig.Circuit, t switching.Table, meta Meta) error {
	entries, err := Entries(c, t)
	if err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create schema in %s: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO switching
		(run_id, circuit, patterns, seed, node_id, kind, value)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare export: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(meta.RunID, c.Name, meta.Patterns, int64(meta.Seed), e.ID, e.Kind, e.Switching); err != nil {
			return fmt.Errorf("insert node %d: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	return nil
}
