// Package cache persists rendered thumbnails in SQLite so a rescan of an
// unchanged library skips the decode-and-downscale work.
package cache

import (
	"bytes"
	"database/sql"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB handles thumbnail persistence.
type DB struct {
	db *sql.DB
}

// Open opens or creates the thumbnail cache at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	c := &DB{db: db}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return c, nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	return c.db.Close()
}

func (c *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS thumbs (
		path TEXT NOT NULL,
		mtime INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		data BLOB NOT NULL,
		PRIMARY KEY (path, width, height)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Get returns the cached thumbnail for path at the given size. ok is false
// on a miss, including when the cached row is stale (source mtime changed)
// or its payload no longer decodes.
func (c *DB) Get(path string, mtime time.Time, w, h int) (image.Image, bool) {
	var storedMtime int64
	var data []byte
	err := c.db.QueryRow(`
		SELECT mtime, data FROM thumbs
		WHERE path = ? AND width = ? AND height = ?
	`, path, w, h).Scan(&storedMtime, &data)
	if err != nil {
		return nil, false
	}
	if storedMtime != mtime.Unix() {
		return nil, false
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		// Corrupt payload; treat as a miss and let Put overwrite it.
		return nil, false
	}
	return img, true
}

// Put stores a thumbnail, replacing any previous entry for the same path and
// size.
func (c *DB) Put(path string, mtime time.Time, w, h int, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO thumbs (path, mtime, width, height, data)
		VALUES (?, ?, ?, ?, ?)
	`, path, mtime.Unix(), w, h, buf.Bytes())
	return err
}
