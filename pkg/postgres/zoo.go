package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// ListZoos retrieves all zoos ordered by ID
func (d *DB) ListZoos(ctx context.Context) ([]model.Zoo, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name FROM zoo ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query zoos: %w", err)
	}
	defer rows.Close()

	zoos := []model.Zoo{}
	for rows.Next() {
		var z model.Zoo
		if err := rows.Scan(&z.ID, &z.Name); err != nil {
			return nil, fmt.Errorf("failed to scan zoo: %w", err)
		}
		zoos = append(zoos, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating zoos: %w", err)
	}
	return zoos, nil
}

// GetZoo retrieves a zoo by ID
func (d *DB) GetZoo(ctx context.Context, id int64) (*model.Zoo, error) {
	var z model.Zoo
	err := d.pool.QueryRow(ctx, `SELECT id, name FROM zoo WHERE id = $1`, id).Scan(&z.ID, &z.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("zoo %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query zoo: %w", err)
	}
	return &z, nil
}

// InsertZoo inserts a zoo and sets its ID
func (d *DB) InsertZoo(ctx context.Context, zoo *model.Zoo) error {
	err := d.pool.QueryRow(ctx, `INSERT INTO zoo (name) VALUES ($1) RETURNING id`, zoo.Name).Scan(&zoo.ID)
	if err != nil {
		return fmt.Errorf("failed to insert zoo: %w", err)
	}
	return nil
}

// ListCategories retrieves all categories ordered by ID
func (d *DB) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name FROM category ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

// InsertCategory inserts a category and sets its ID
func (d *DB) InsertCategory(ctx context.Context, category *model.Category) error {
	err := d.pool.QueryRow(ctx, `INSERT INTO category (name) VALUES ($1) RETURNING id`, category.Name).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}
