package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"splitmark/internal/domain"
	"splitmark/internal/ports"

	_ "github.com/mattn/go-sqlite3"
)

const schemaVersion = "1"

// Cache implements ports.VolumeCache using SQLite
type Cache struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Ensure Cache implements VolumeCache
var _ ports.VolumeCache = (*Cache)(nil)

// NewCache creates a new SQLite volume cache
func NewCache() *Cache {
	return &Cache{now: time.Now}
}

// DefaultPath returns the cache database location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "splitmark", "volumes.db")
}

// Open initializes the cache at path, or at DefaultPath when path is empty
func (c *Cache) Open(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	// Expand ~ in path
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	c.dbPath = path

	if err := os.MkdirAll(filepath.Dir(c.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", c.dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	c.db = db

	// Pragmas + schema in single batch
	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS volumes (
			collection TEXT NOT NULL,
			filename TEXT NOT NULL,
			volume_number INTEGER NOT NULL,
			label TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (collection, filename)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_volumes_collection ON volumes(collection, volume_number);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	if err := c.checkSchema(); err != nil {
		db.Close()
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	return nil
}

// Close closes the database connection
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Path returns the database file location
func (c *Cache) Path() string {
	return c.dbPath
}

// checkSchema drops cached rows written by a different schema version
func (c *Cache) checkSchema() error {
	var version string
	err := c.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return err
	}
	if version == schemaVersion {
		return nil
	}
	if _, err := c.db.Exec(`DELETE FROM volumes`); err != nil {
		return err
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// Get returns the cached volumes of a collection if they were stored within maxAge
func (c *Cache) Get(ctx context.Context, collection string, maxAge time.Duration) ([]domain.VolumeEntry, bool, error) {
	var fetchedAt sql.NullInt64
	err := c.db.QueryRowContext(ctx,
		`SELECT MIN(fetched_at) FROM volumes WHERE collection = ?`, collection,
	).Scan(&fetchedAt)
	if err != nil {
		return nil, false, err
	}
	if !fetchedAt.Valid {
		return nil, false, nil
	}
	if maxAge > 0 && c.now().Sub(time.Unix(fetchedAt.Int64, 0)) > maxAge {
		return nil, false, nil
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT filename, volume_number, label
		FROM volumes
		WHERE collection = ?
		ORDER BY volume_number, filename
	`, collection)
	if err != nil {
		return nil, false, err
	}
	defer rows.Close()

	var entries []domain.VolumeEntry
	for rows.Next() {
		var e domain.VolumeEntry
		if err := rows.Scan(&e.Filename, &e.VolumeNumber, &e.Label); err != nil {
			return nil, false, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Put replaces the cached volumes of a collection in one transaction
func (c *Cache) Put(ctx context.Context, collection string, entries []domain.VolumeEntry) error {
	tx, err := c.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := tx.deleteCollection(collection); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", collection, err)
	}
	fetchedAt := c.now().Unix()
	for _, e := range entries {
		if err := tx.insertVolume(collection, e, fetchedAt); err != nil {
			return fmt.Errorf("failed to cache %s: %w", e.Filename, err)
		}
	}
	return tx.Commit()
}

// Clear drops one collection, or every collection when collection is empty
func (c *Cache) Clear(ctx context.Context, collection string) error {
	if collection == "" {
		_, err := c.db.ExecContext(ctx, `DELETE FROM volumes`)
		return err
	}
	_, err := c.db.ExecContext(ctx, `DELETE FROM volumes WHERE collection = ?`, collection)
	return err
}

// Collections lists the cached collection names
func (c *Cache) Collections(ctx context.Context) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT DISTINCT collection FROM volumes ORDER BY collection`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}
