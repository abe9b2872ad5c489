package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// CommitBatch applies every mutation in one transaction. Each update is guarded by
// the expected version; if any row has moved on the transaction is rolled back and
// ErrConflict is returned.
func (d *DB) CommitBatch(ctx context.Context, batch db.Batch) error {
	if err := db.ValidateBatch(batch); err != nil {
		return err
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

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

		tag, err := tx.Exec(ctx, `
			UPDATE animal SET enclosure_id = $2, version = version + 1
			WHERE id = $1 AND version = $3
		`, mut.AnimalID, mut.EnclosureID, mut.ExpectedVersion)
		if err != nil {
			return fmt.Errorf("failed to update animal %d: %w", mut.AnimalID, err)
		}
		if tag.RowsAffected() == 0 {
			return missingOrConflict(ctx, tx, "animal", mut.AnimalID, mut.ExpectedVersion)
		}
	}

	for _, mut := range batch.Enclosures {
		tag, err := tx.Exec(ctx, `
			UPDATE enclosure SET remaining_capacity = $2, version = version + 1
			WHERE id = $1 AND version = $3
		`, mut.EnclosureID, mut.RemainingCapacity, mut.ExpectedVersion)
		if err != nil {
			return fmt.Errorf("failed to update enclosure %d: %w", mut.EnclosureID, err)
		}
		if tag.RowsAffected() == 0 {
			return missingOrConflict(ctx, tx, "enclosure", mut.EnclosureID, mut.ExpectedVersion)
		}
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO assignment_batch (id, reset_all, placed_count)
		VALUES ($1, $2, $3)
	`, batch.ID, batch.ResetAll, batch.PlacedCount); err != nil {
		return fmt.Errorf("failed to record batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// missingOrConflict explains why a versioned update touched no rows
func missingOrConflict(ctx context.Context, q rowQuerier, table string, id, expectedVersion int64) error {
	var version int64
	err := q.QueryRow(ctx, `SELECT version FROM `+table+` WHERE id = $1`, id).Scan(&version)
	if err != nil {
		return fmt.Errorf("%s %d: %w", table, id, db.ErrNotFound)
	}
	return fmt.Errorf("%s %d changed (version %d, expected %d): %w", table, id, version, expectedVersion, db.ErrConflict)
}

// ListBatches returns committed batches, oldest first
func (d *DB) ListBatches(ctx context.Context) ([]db.BatchRecord, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id::TEXT, reset_all, placed_count, committed_at
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
		if err := rows.Scan(&b.ID, &b.ResetAll, &b.PlacedCount, &b.CommittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan batch: %w", err)
		}
		b.CommittedAt = b.CommittedAt.UTC()
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batches: %w", err)
	}
	return batches, nil
}
