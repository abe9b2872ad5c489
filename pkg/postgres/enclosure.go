package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

const enclosureColumns = `id, name, climate, habitat_type, dietary_restrictions, security_level, size, remaining_capacity, zoo_id, version`

func scanEnclosure(row pgx.Row) (model.Enclosure, error) {
	var r db.EnclosureRow
	var habitat int16
	if err := row.Scan(&r.ID, &r.Name, &r.Climate, &habitat, &r.DietaryRestrictions,
		&r.SecurityLevel, &r.Size, &r.RemainingCapacity, &r.ZooID, &r.Version); err != nil {
		return model.Enclosure{}, err
	}
	r.HabitatType = int64(habitat)
	return r.Enclosure()
}

// ListEnclosures retrieves enclosures matching the filter, ordered by ID
func (d *DB) ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+enclosureColumns+`
		FROM enclosure
		WHERE ($1::BIGINT IS NULL OR zoo_id = $1)
		ORDER BY id
	`, filter.ZooID)
	if err != nil {
		return nil, fmt.Errorf("failed to query enclosures: %w", err)
	}
	defer rows.Close()

	enclosures := []model.Enclosure{}
	for rows.Next() {
		e, err := scanEnclosure(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enclosure: %w", err)
		}
		enclosures = append(enclosures, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enclosures: %w", err)
	}
	return enclosures, nil
}

// GetEnclosure retrieves an enclosure by ID
func (d *DB) GetEnclosure(ctx context.Context, id int64) (*model.Enclosure, error) {
	e, err := scanEnclosure(d.pool.QueryRow(ctx, `SELECT `+enclosureColumns+` FROM enclosure WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("enclosure %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query enclosure: %w", err)
	}
	return &e, nil
}

// InsertEnclosure inserts an enclosure and sets its ID and version
func (d *DB) InsertEnclosure(ctx context.Context, enclosure *model.Enclosure) error {
	if err := db.PrepareNewEnclosure(enclosure); err != nil {
		return err
	}

	if enclosure.ZooID != nil {
		ok, err := exists(ctx, d.pool, "zoo", *enclosure.ZooID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("zoo %d: %w", *enclosure.ZooID, db.ErrNotFound)
		}
	}

	r := db.NewEnclosureRow(enclosure)
	err := d.pool.QueryRow(ctx, `
		INSERT INTO enclosure (name, climate, habitat_type, dietary_restrictions, security_level, size, remaining_capacity, zoo_id, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1)
		RETURNING id
	`, r.Name, r.Climate, int16(r.HabitatType), r.DietaryRestrictions, r.SecurityLevel, r.Size, r.RemainingCapacity, r.ZooID).Scan(&enclosure.ID)
	if err != nil {
		return fmt.Errorf("failed to insert enclosure: %w", err)
	}
	enclosure.Version = 1
	return nil
}
