package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

const animalColumns = `id, name, species, category_id, size, dietary_class, activity_pattern, enclosure_id, space_requirement, security_requirement, version`

func scanAnimal(s rowScanner) (model.Animal, error) {
	var r db.AnimalRow
	if err := s.Scan(&r.ID, &r.Name, &r.Species, &r.CategoryID, &r.Size, &r.DietaryClass,
		&r.ActivityPattern, &r.EnclosureID, &r.SpaceRequirement, &r.SecurityRequirement, &r.Version); err != nil {
		return model.Animal{}, err
	}
	return r.Animal()
}

// ListAnimals retrieves animals matching the filter, ordered by ID, with their prey
func (d *DB) ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error) {
	f := db.NewAnimalFilterRow(filter)
	rows, err := d.sql.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animal
		WHERE (?1 IS NULL OR enclosure_id = ?1)
		  AND (?2 = 0 OR enclosure_id IS NULL)
		  AND (?3 = '' OR instr(lower(name), ?3) > 0)
		  AND (?4 = '' OR instr(lower(species), ?4) > 0)
		  AND (?5 IS NULL OR category_id = ?5)
		  AND (?6 IS NULL OR size = ?6)
		  AND (?7 IS NULL OR dietary_class = ?7)
		  AND (?8 IS NULL OR activity_pattern = ?8)
		  AND (?9 IS NULL OR security_requirement = ?9)
		  AND (?10 IS NULL OR space_requirement >= ?10)
		  AND (?11 = '' OR EXISTS (
			SELECT 1 FROM enclosure e
			WHERE e.id = animal.enclosure_id AND instr(lower(e.name), ?11) > 0))
		  AND (?12 = '' OR EXISTS (
			SELECT 1 FROM animal_prey p JOIN animal pa ON pa.id = p.prey_id
			WHERE p.animal_id = animal.id AND pa.species <> '' AND instr(lower(pa.species), ?12) > 0))
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

	prey, err := d.preyByAnimal(ctx)
	if err != nil {
		return nil, err
	}
	for i := range animals {
		animals[i].PreyIDs = prey[animals[i].ID]
	}

	return animals, nil
}

// GetAnimal retrieves an animal by ID with its prey
func (d *DB) GetAnimal(ctx context.Context, id int64) (*model.Animal, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animal WHERE id = ?`, id)
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("animal %d: %w", id, db.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query animal: %w", err)
	}

	rows, err := d.sql.QueryContext(ctx, `SELECT prey_id FROM animal_prey WHERE animal_id = ? ORDER BY prey_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query prey: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var preyID int64
		if err := rows.Scan(&preyID); err != nil {
			return nil, fmt.Errorf("failed to scan prey: %w", err)
		}
		a.PreyIDs = append(a.PreyIDs, preyID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prey: %w", err)
	}

	return &a, nil
}

// preyByAnimal loads every prey link, grouped by predator and ordered by prey ID
func (d *DB) preyByAnimal(ctx context.Context) (map[int64][]int64, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT animal_id, prey_id FROM animal_prey ORDER BY animal_id, prey_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prey: %w", err)
	}
	defer rows.Close()

	prey := make(map[int64][]int64)
	for rows.Next() {
		var animalID, preyID int64
		if err := rows.Scan(&animalID, &preyID); err != nil {
			return nil, fmt.Errorf("failed to scan prey: %w", err)
		}
		prey[animalID] = append(prey[animalID], preyID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prey: %w", err)
	}
	return prey, nil
}

// InsertAnimal inserts an animal with its prey links and sets its ID and version
func (d *DB) InsertAnimal(ctx context.Context, animal *model.Animal) (retErr error) {
	if err := db.ValidateNewAnimal(animal); err != nil {
		return err
	}
	animal.PreyIDs = db.NormalizePrey(animal.PreyIDs)

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	// Housing takes the enclosure's space and moves its version on
	if animal.EnclosureID != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE enclosure
			SET remaining_capacity = MAX(remaining_capacity - ?, 0), version = version + 1
			WHERE id = ?
		`, animal.SpaceRequirement, *animal.EnclosureID)
		if err != nil {
			return fmt.Errorf("failed to update enclosure: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("enclosure %d: %w", *animal.EnclosureID, db.ErrNotFound)
		}
	}

	r := db.NewAnimalRow(animal)
	res, err := tx.ExecContext(ctx, `
		INSERT INTO animal (name, species, category_id, size, dietary_class, activity_pattern, enclosure_id, space_requirement, security_requirement, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`, r.Name, r.Species, r.CategoryID, r.Size, r.DietaryClass, r.ActivityPattern, r.EnclosureID, r.SpaceRequirement, r.SecurityRequirement)
	if err != nil {
		return fmt.Errorf("failed to insert animal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read animal id: %w", err)
	}

	if err := insertPrey(ctx, tx, id, animal.PreyIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit animal: %w", err)
	}

	animal.ID = id
	animal.Version = 1
	return nil
}

// SetPrey replaces the prey list of an animal
func (d *DB) SetPrey(ctx context.Context, animalID int64, preyIDs []int64) (retErr error) {
	if err := db.ValidatePrey(animalID, preyIDs); err != nil {
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

	res, err := tx.ExecContext(ctx, `UPDATE animal SET version = version + 1 WHERE id = ?`, animalID)
	if err != nil {
		return fmt.Errorf("failed to update animal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("animal %d: %w", animalID, db.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM animal_prey WHERE animal_id = ?`, animalID); err != nil {
		return fmt.Errorf("failed to clear prey: %w", err)
	}
	if err := insertPrey(ctx, tx, animalID, db.NormalizePrey(preyIDs)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prey: %w", err)
	}
	return nil
}

func insertPrey(ctx context.Context, tx *sql.Tx, animalID int64, preyIDs []int64) error {
	for _, preyID := range preyIDs {
		ok, err := exists(ctx, tx, "animal", preyID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("prey animal %d: %w", preyID, db.ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO animal_prey (animal_id, prey_id) VALUES (?, ?)`, animalID, preyID); err != nil {
			return fmt.Errorf("failed to insert prey link: %w", err)
		}
	}
	return nil
}

// DeleteAnimal removes an animal and drops it from every prey list
func (d *DB) DeleteAnimal(ctx context.Context, id int64) (retErr error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	// The enclosure gets the space back
	if _, err := tx.ExecContext(ctx, `
		UPDATE enclosure
		SET remaining_capacity = MIN(size, remaining_capacity + a.space_requirement), version = version + 1
		FROM (SELECT enclosure_id, space_requirement FROM animal WHERE id = ?) AS a
		WHERE enclosure.id = a.enclosure_id
	`, id); err != nil {
		return fmt.Errorf("failed to update enclosure: %w", err)
	}

	// Predators lose a prey, so their version moves on
	if _, err := tx.ExecContext(ctx, `
		UPDATE animal SET version = version + 1
		WHERE id IN (SELECT animal_id FROM animal_prey WHERE prey_id = ?)
	`, id); err != nil {
		return fmt.Errorf("failed to update predators: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM animal_prey WHERE animal_id = ?1 OR prey_id = ?1`, id); err != nil {
		return fmt.Errorf("failed to delete prey links: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM animal WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete animal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("animal %d: %w", id, db.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
