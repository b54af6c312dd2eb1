package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"splitmark/internal/domain"
)

// cacheTx groups the writes of one Put
type cacheTx struct {
	tx *sql.Tx
}

func (c *Cache) beginTx(ctx context.Context) (*cacheTx, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &cacheTx{tx: tx}, nil
}

// deleteCollection removes every row of a collection
func (t *cacheTx) deleteCollection(collection string) error {
	_, err := t.tx.Exec(`DELETE FROM volumes WHERE collection = ?`, collection)
	return err
}

// insertVolume adds or replaces one volume row
func (t *cacheTx) insertVolume(collection string, e domain.VolumeEntry, fetchedAt int64) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO volumes (collection, filename, volume_number, label, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, collection, e.Filename, e.VolumeNumber, e.Label, fetchedAt)
	return err
}

// Commit commits the transaction
func (t *cacheTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction; after Commit it is a no-op
func (t *cacheTx) Rollback() error {
	return t.tx.Rollback()
}
