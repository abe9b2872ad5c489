package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// batchTimeLayout is fixed width so committed_at sorts as text
const batchTimeLayout = "2006-01-02T15:04:05.000000000Z"

// CommitBatch applies every mutation in one transaction. Each update is guarded by
// the expected version; if any row has moved on the transaction is rolled back and
// ErrConflict is returned.
func (d *DB) CommitBatch(ctx context.Context, batch db.Batch) (retErr error) {
	if err := db.ValidateBatch(batch); err != nil {
		return err
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, mut := range batch.Animals {
		if mut.EnclosureID != nil {
			ok, err := exists(ctx, tx, "enclosure", *mut.EnclosureID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("enclosure %d: %w", *mut.EnclosureID, db.ErrNotFound)
			}
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE animal SET enclosure_id = ?, version = version + 1
			WHERE id = ? AND version = ?
		`, mut.EnclosureID, mut.AnimalID, mut.ExpectedVersion)
		if err != nil {
			return fmt.Errorf("failed to update animal %d: %w", mut.AnimalID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return missingOrConflict(ctx, tx, "animal", mut.AnimalID, mut.ExpectedVersion)
		}
	}

	for _, mut := range batch.Enclosures {
		res, err := tx.ExecContext(ctx, `
			UPDATE enclosure SET remaining_capacity = ?, version = version + 1
			WHERE id = ? AND version = ?
		`, mut.RemainingCapacity, mut.EnclosureID, mut.ExpectedVersion)
		if err != nil {
			return fmt.Errorf("failed to update enclosure %d: %w", mut.EnclosureID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return missingOrConflict(ctx, tx, "enclosure", mut.EnclosureID, mut.ExpectedVersion)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO assignment_batch (id, reset_all, placed_count, committed_at)
		VALUES (?, ?, ?, ?)
	`, batch.ID, batch.ResetAll, batch.PlacedCount, time.Now().UTC().Format(batchTimeLayout)); err != nil {
		return fmt.Errorf("failed to record batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// missingOrConflict explains why a versioned update touched no rows
func missingOrConflict(ctx context.Context, q queryer, table string, id, expectedVersion int64) error {
	var version int64
	err := q.QueryRowContext(ctx, `SELECT version FROM `+table+` WHERE id = ?`, id).Scan(&version)
	if err != nil {
		return fmt.Errorf("%s %d: %w", table, id, db.ErrNotFound)
	}
	return fmt.Errorf("%s %d changed (version %d, expected %d): %w", table, id, version, expectedVersion, db.ErrConflict)
}

// ListBatches returns committed batches, oldest first
func (d *DB) ListBatches(ctx context.Context) ([]db.BatchRecord, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT id, reset_all, placed_count, committed_at
		FROM assignment_batch
		ORDER BY committed_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query batches: %w", err)
	}
	defer rows.Close()

	batches := []db.BatchRecord{}
	for rows.Next() {
		var b db.BatchRecord
		var committedAt string
		if err := rows.Scan(&b.ID, &b.ResetAll, &b.PlacedCount, &committedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		b.CommittedAt, err = time.Parse(batchTimeLayout, committedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse batch time: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}
	return batches, nil
}
