package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

const enclosureColumns = `id, name, climate, habitat_type, dietary_restrictions, security_level, size, remaining_capacity, zoo_id, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEnclosure(s rowScanner) (model.Enclosure, error) {
	var r db.EnclosureRow
	if err := s.Scan(&r.ID, &r.Name, &r.Climate, &r.HabitatType, &r.DietaryRestrictions,
		&r.SecurityLevel, &r.Size, &r.RemainingCapacity, &r.ZooID, &r.Version); err != nil {
		return model.Enclosure{}, err
	}
	return r.Enclosure()
}

// ListEnclosures retrieves enclosures matching the filter, ordered by ID
func (d *DB) ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT `+enclosureColumns+`
		FROM enclosure
		WHERE (?1 IS NULL OR zoo_id = ?1)
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
	row := d.sql.QueryRowContext(ctx, `SELECT `+enclosureColumns+` FROM enclosure WHERE id = ?`, id)
	e, err := scanEnclosure(row)
	if errors.Is(err, sql.ErrNoRows) {
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
		ok, err := exists(ctx, d.sql, "zoo", *enclosure.ZooID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("zoo %d: %w", *enclosure.ZooID, db.ErrNotFound)
		}
	}

	r := db.NewEnclosureRow(enclosure)
	res, err := d.sql.ExecContext(ctx, `
		INSERT INTO enclosure (name, climate, habitat_type, dietary_restrictions, security_level, size, remaining_capacity, zoo_id, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, r.Name, r.Climate, r.HabitatType, r.DietaryRestrictions, r.SecurityLevel, r.Size, r.RemainingCapacity, r.ZooID)
	if err != nil {
		return fmt.Errorf("failed to insert enclosure: %w", err)
	}

	enclosure.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read enclosure id: %w", err)
	}
	enclosure.Version = 1
	return nil
}
