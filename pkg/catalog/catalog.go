// Package catalog records exports in a SQLite database so repeated runs over
// the same layout can be listed and compared.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ChicagoDave/citymesh/pkg/city"
)

// Catalog is an open export catalog.
type Catalog struct {
	db  *sql.DB
	now func() time.Time
}

// Entry is one recorded export.
type Entry struct {
	ID        int64     `json:"id"`
	LayoutID  string    `json:"layout_id"`
	Format    string    `json:"format"`
	Path      string    `json:"path"`
	Triangles int       `json:"triangles"`
	Bytes     int64     `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Layout is the catalog row describing an exported layout.
type Layout struct {
	ID         string    `json:"id"`
	Size       int       `json:"size"`
	Buildings  int       `json:"buildings"`
	Facilities int       `json:"facilities"`
	Roads      int       `json:"roads"`
	FirstSeen  time.Time `json:"first_seen"`
}

// Open opens or creates the catalog at path.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("empty catalog path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Catalog{db: db, now: time.Now}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("catalog pragma %q: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS layouts (
			id TEXT PRIMARY KEY,
			size INTEGER NOT NULL,
			buildings INTEGER NOT NULL,
			facilities INTEGER NOT NULL,
			roads INTEGER NOT NULL,
			first_seen TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS exports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			layout_id TEXT NOT NULL REFERENCES layouts(id),
			format TEXT NOT NULL,
			path TEXT NOT NULL,
			triangles INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS exports_layout ON exports(layout_id);`,
		`CREATE TABLE IF NOT EXISTS summaries (
			layout_id TEXT PRIMARY KEY REFERENCES layouts(id),
			json TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("catalog schema: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Catalog) timestamp() string {
	return c.now().UTC().Format(time.RFC3339Nano)
}

// RecordLayout registers l under its ID. Recording the same layout again
// keeps the original first-seen time.
func (c *Catalog) RecordLayout(ctx context.Context, l *city.Layout) (string, error) {
	id := l.ID().String()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO layouts(id, size, buildings, facilities, roads, first_seen)
		 VALUES(?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		id, l.Size, len(l.Buildings), len(l.Facilities), len(l.Roads), c.timestamp())
	if err != nil {
		return id, fmt.Errorf("recording layout %s: %w", id, err)
	}
	return id, nil
}

// RecordExport appends an export entry and returns its row ID. The layout
// must have been recorded first.
func (c *Catalog) RecordExport(ctx context.Context, e Entry) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO exports(layout_id, format, path, triangles, bytes, created_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		e.LayoutID, e.Format, e.Path, e.Triangles, e.Bytes, c.timestamp())
	if err != nil {
		return 0, fmt.Errorf("recording %s export: %w", e.Format, err)
	}
	return res.LastInsertId()
}

// RecordSummary stores the latest summary report of a layout.
func (c *Catalog) RecordSummary(ctx context.Context, layoutID string, summary []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO summaries(layout_id, json, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(layout_id) DO UPDATE SET json=excluded.json, updated_at=excluded.updated_at`,
		layoutID, string(summary), c.timestamp())
	if err != nil {
		return fmt.Errorf("recording summary: %w", err)
	}
	return nil
}

// Summary returns the stored summary report of a layout.
func (c *Catalog) Summary(ctx context.Context, layoutID string) ([]byte, bool, error) {
	var s string
	err := c.db.QueryRowContext(ctx, `SELECT json FROM summaries WHERE layout_id=?`, layoutID).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(s), true, nil
}

// Layouts lists recorded layouts, oldest first.
func (c *Catalog) Layouts(ctx context.Context) ([]Layout, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, size, buildings, facilities, roads, first_seen FROM layouts ORDER BY first_seen, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Layout
	for rows.Next() {
		var (
			l    Layout
			seen string
		)
		if err := rows.Scan(&l.ID, &l.Size, &l.Buildings, &l.Facilities, &l.Roads, &seen); err != nil {
			return nil, err
		}
		if l.FirstSeen, err = time.Parse(time.RFC3339Nano, seen); err != nil {
			return nil, fmt.Errorf("layout %s: %w", l.ID, err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Exports lists export entries in the order they were recorded. An empty
// layoutID lists every layout.
func (c *Catalog) Exports(ctx context.Context, layoutID string) ([]Entry, error) {
	q := `SELECT id, layout_id, format, path, triangles, bytes, created_at FROM exports`
	var args []any
	if layoutID != "" {
		q += ` WHERE layout_id=?`
		args = append(args, layoutID)
	}
	q += ` ORDER BY id`

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			created string
		)
		if err := rows.Scan(&e.ID, &e.LayoutID, &e.Format, &e.Path, &e.Triangles, &e.Bytes, &created); err != nil {
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("export %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
