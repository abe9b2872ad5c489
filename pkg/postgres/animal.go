package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

const animalColumns = `id, name, species, category_id, size, dietary_class, activity_pattern, enclosure_id, space_requirement, security_requirement, version`

// preyColumn aggregates prey IDs in order; empty when the animal has no prey
const preyColumn = `COALESCE((SELECT array_agg(p.prey_id ORDER BY p.prey_id) FROM animal_prey p WHERE p.animal_id = animal.id), '{}')`

func scanAnimal(row pgx.Row) (model.Animal, error) {
	var r db.AnimalRow
	var prey []int64
	if err := row.Scan(&r.ID, &r.Name, &r.Species, &r.CategoryID, &r.Size, &r.DietaryClass,
		&r.ActivityPattern, &r.EnclosureID, &r.SpaceRequirement, &r.SecurityRequirement, &r.Version, &prey); err != nil {
		return model.Animal{}, err
	}
	a, err := r.Animal()
	if err != nil {
		return a, err
	}
	if len(prey) > 0 {
		a.PreyIDs = prey
	}
	return a, nil
}

// ListAnimals retrieves animals matching the filter, ordered by ID, with their prey
func (d *DB) ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error) {
	f := db.NewAnimalFilterRow(filter)
	rows, err := d.pool.Query(ctx, `
		SELECT `+animalColumns+`, `+preyColumn+`
		FROM animal
		WHERE ($1::BIGINT IS NULL OR enclosure_id = $1)
		  AND (NOT $2 OR enclosure_id IS NULL)
		  AND ($3 = '' OR strpos(lower(name), $3) > 0)
		  AND ($4 = '' OR strpos(lower(species), $4) > 0)
		  AND ($5::BIGINT IS NULL OR category_id = $5)
		  AND ($6::TEXT IS NULL OR size = $6)
		  AND ($7::TEXT IS NULL OR dietary_class = $7)
		  AND ($8::TEXT IS NULL OR activity_pattern = $8)
		  AND ($9::TEXT IS NULL OR security_requirement = $9)
		  AND ($10::DOUBLE PRECISION IS NULL OR space_requirement >= $10)
		  AND ($11 = '' OR EXISTS (
			SELECT 1 FROM enclosure e
			WHERE e.id = animal.enclosure_id AND strpos(lower(e.name), $11) > 0))
		  AND ($12 = '' OR EXISTS (
			SELECT 1 FROM animal_prey p JOIN animal pa ON pa.id = p.prey_id
			WHERE p.animal_id = animal.id AND pa.species <> '' AND strpos(lower(pa.species), $12) > 0))
		ORDER BY id
	`, f.EnclosureID, f.Unassigned, f.Name, f.Species, f.CategoryID, f.Size, f.DietaryClass,
		f.ActivityPattern, f.SecurityRequirement, f.MinSpace, f.EnclosureName, f.PreySpecies)
	if err != nil {
		return nil, fmt.Errorf("failed to query animals: %w", err)
	}
	defer rows.Close()

	animals := []model.Animal{}
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan animal: %w", err)
		}
		animals = append(animals, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating animals: %w", err)
	}
	return animals, nil
}

// GetAnimal retrieves an animal by ID with its prey
func (d *DB) GetAnimal(ctx context.Context, id int64) (*model.Animal, error) {
	a, err := scanAnimal(d.pool.QueryRow(ctx, `SELECT `+animalColumns+`, `+preyColumn+` FROM animal WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("animal %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query animal: %w", err)
	}
	return &a, nil
}

// InsertAnimal inserts an animal with its prey links and sets its ID and version
func (d *DB) InsertAnimal(ctx context.Context, animal *model.Animal) error {
	if err := db.ValidateNewAnimal(animal); err != nil {
		return err
	}
	animal.PreyIDs = db.NormalizePrey(animal.PreyIDs)

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Housing takes the enclosure's space and moves its version on
	if animal.EnclosureID != nil {
		tag, err := tx.Exec(ctx, `
			UPDATE enclosure
			SET remaining_capacity = GREATEST(remaining_capacity - $1, 0), version = version + 1
			WHERE id = $2
		`, animal.SpaceRequirement, *animal.EnclosureID)
		if err != nil {
			return fmt.Errorf("failed to update enclosure: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("enclosure %d: %w", *animal.EnclosureID, db.ErrNotFound)
		}
	}

	r := db.NewAnimalRow(animal)
	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO animal (name, species, category_id, size, dietary_class, activity_pattern, enclosure_id, space_requirement, security_requirement, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1)
		RETURNING id
	`, r.Name, r.Species, r.CategoryID, r.Size, r.DietaryClass, r.ActivityPattern, r.EnclosureID, r.SpaceRequirement, r.SecurityRequirement).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to insert animal: %w", err)
	}

	if err := insertPrey(ctx, tx, id, animal.PreyIDs); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit animal: %w", err)
	}

	animal.ID = id
	animal.Version = 1
	return nil
}

// SetPrey replaces the prey list of an animal
func (d *DB) SetPrey(ctx context.Context, animalID int64, preyIDs []int64) error {
	if err := db.ValidatePrey(animalID, preyIDs); err != nil {
		return err
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE animal SET version = version + 1 WHERE id = $1`, animalID)
	if err != nil {
		return fmt.Errorf("failed to update animal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("animal %d: %w", animalID, db.ErrNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM animal_prey WHERE animal_id = $1`, animalID); err != nil {
		return fmt.Errorf("failed to clear prey: %w", err)
	}
	if err := insertPrey(ctx, tx, animalID, db.NormalizePrey(preyIDs)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit prey: %w", err)
	}
	return nil
}

func insertPrey(ctx context.Context, tx pgx.Tx, animalID int64, preyIDs []int64) error {
	for _, preyID := range preyIDs {
		ok, err := exists(ctx, tx, "animal", preyID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("prey animal %d: %w", preyID, db.ErrNotFound)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO animal_prey (animal_id, prey_id) VALUES ($1, $2)`, animalID, preyID); err != nil {
			return fmt.Errorf("failed to insert prey link: %w", err)
		}
	}
	return nil
}

// DeleteAnimal removes an animal and drops it from every prey list
func (d *DB) DeleteAnimal(ctx context.Context, id int64) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// The enclosure gets the space back
	if _, err := tx.Exec(ctx, `
		UPDATE enclosure
		SET remaining_capacity = LEAST(enclosure.size, enclosure.remaining_capacity + a.space_requirement),
		    version = enclosure.version + 1
		FROM animal a
		WHERE a.id = $1 AND enclosure.id = a.enclosure_id
	`, id); err != nil {
		return fmt.Errorf("failed to update enclosure: %w", err)
	}

	// Predators lose a prey, so their version moves on
	if _, err := tx.Exec(ctx, `
		UPDATE animal SET version = version + 1
		WHERE id IN (SELECT animal_id FROM animal_prey WHERE prey_id = $1)
	`, id); err != nil {
		return fmt.Errorf("failed to update predators: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM animal_prey WHERE animal_id = $1 OR prey_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete prey links: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM animal WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("animal %d: %w", id, db.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
