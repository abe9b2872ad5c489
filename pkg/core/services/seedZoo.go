package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/pkg/core/model"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
)

// SeedStore defines the database operations needed for seeding
type SeedStore interface {
	ListZoos(ctx context.Context) ([]model.Zoo, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListEnclosures(ctx context.Context, filter db.EnclosureFilter) ([]model.Enclosure, error)
	ListAnimals(ctx context.Context, filter db.AnimalFilter) ([]model.Animal, error)
	InsertZoo(ctx context.Context, zoo *model.Zoo) error
	InsertCategory(ctx context.Context, category *model.Category) error
	InsertEnclosure(ctx context.Context, enclosure *model.Enclosure) error
	InsertAnimal(ctx context.Context, animal *model.Animal) error
	SetPrey(ctx context.Context, animalID int64, preyIDs []int64) error
}

// SeedResult counts what SeedZoo inserted
type SeedResult struct {
	ZooID      int64
	Zoos       int
	Categories int
	Enclosures int
	Animals    int
}

const seedZooName = "My Zoo"

var seedCategories = []string{"Mammals", "Birds", "Reptiles", "Amphibians", "Fish"}

var seedEnclosures = []model.Enclosure{
	{Name: "Savanna", Size: 500, Climate: model.ClimateTropical, HabitatType: model.HabitatGrassland, SecurityLevel: model.SecurityHigh},
	{Name: "Aquarium", Size: 200, Climate: model.ClimateTropical, HabitatType: model.HabitatAquatic, SecurityLevel: model.SecurityMedium, DietaryRestrictions: "Herbivore"},
	{Name: "Polar Enclosure", Size: 300, Climate: model.ClimateArctic, HabitatType: model.HabitatAquatic, SecurityLevel: model.SecurityMedium},
	{Name: "Aviary", Size: 150, Climate: model.ClimateTemperate, HabitatType: model.HabitatForest, SecurityLevel: model.SecurityLow, DietaryRestrictions: "Piscivore"},
	{Name: "Reptile House", Size: 100, Climate: model.ClimateTropical, HabitatType: model.HabitatDesert | model.HabitatForest, SecurityLevel: model.SecurityHigh},
	{Name: "Monkey Rock", Size: 400, Climate: model.ClimateTropical, HabitatType: model.HabitatForest, SecurityLevel: model.SecurityMedium, DietaryRestrictions: "Carnivore"},
	{Name: "Desert", Size: 250, Climate: model.ClimateTemperate, HabitatType: model.HabitatDesert, SecurityLevel: model.SecurityLow},
}

type seedAnimal struct {
	animal   model.Animal
	category string
}

var seedAnimals = []seedAnimal{
	{model.Animal{Name: "Leo", Species: "Lion", Size: model.SizeLarge, DietaryClass: model.DietCarnivore, ActivityPattern: model.Nocturnal, SpaceRequirement: 40, SecurityRequirement: model.SecurityHigh}, "Mammals"},
	{model.Animal{Name: "Shere", Species: "Tiger", Size: model.SizeLarge, DietaryClass: model.DietCarnivore, ActivityPattern: model.Nocturnal, SpaceRequirement: 35, SecurityRequirement: model.SecurityHigh}, "Mammals"},
	{model.Animal{Name: "Dumbo", Species: "Elephant", Size: model.SizeVeryLarge, DietaryClass: model.DietHerbivore, ActivityPattern: model.Diurnal, SpaceRequirement: 50, SecurityRequirement: model.SecurityMedium}, "Mammals"},
	{model.Animal{Name: "Pingu", Species: "Penguin", Size: model.SizeSmall, DietaryClass: model.DietPiscivore, ActivityPattern: model.Diurnal, SpaceRequirement: 8, SecurityRequirement: model.SecurityLow}, "Birds"},
	{model.Animal{Name: "Snappy", Species: "Crocodile", Size: model.SizeLarge, DietaryClass: model.DietCarnivore, ActivityPattern: model.Cathemeral, SpaceRequirement: 30, SecurityRequirement: model.SecurityHigh}, "Reptiles"},
	{model.Animal{Name: "Aquila", Species: "Eagle", Size: model.SizeMedium, DietaryClass: model.DietCarnivore, ActivityPattern: model.Diurnal, SpaceRequirement: 12.5, SecurityRequirement: model.SecurityMedium}, "Birds"},
	{model.Animal{Name: "Kong", Species: "Gorilla", Size: model.SizeLarge, DietaryClass: model.DietHerbivore, ActivityPattern: model.Diurnal, SpaceRequirement: 35, SecurityRequirement: model.SecurityMedium}, "Mammals"},
}

// seedPrey links predator to prey by name
var seedPrey = map[string]string{"Snappy": "Pingu"}

// SeedZoo fills an empty store with a sample zoo. Each table is only seeded when
// it is empty, so running it twice is harmless. Seeded animals start unassigned.
func SeedZoo(ctx context.Context, store SeedStore, logger *zap.Logger) (*SeedResult, error) {
	result := &SeedResult{}

	// 1. Zoo
	zoos, err := store.ListZoos(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list zoos: %w", err)
	}
	if len(zoos) == 0 {
		zoo := &model.Zoo{Name: seedZooName}
		if err := store.InsertZoo(ctx, zoo); err != nil {
			return nil, fmt.Errorf("failed to insert zoo: %w", err)
		}
		result.ZooID = zoo.ID
		result.Zoos = 1
		logger.Debug("Seeded zoo", zap.Int64("zoo_id", zoo.ID))
	} else {
		result.ZooID = zoos[0].ID
	}

	// 2. Categories
	categories, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if len(categories) == 0 {
		for _, name := range seedCategories {
			category := &model.Category{Name: name}
			if err := store.InsertCategory(ctx, category); err != nil {
				return nil, fmt.Errorf("failed to insert category %s: %w", name, err)
			}
			categories = append(categories, *category)
			result.Categories++
		}
		logger.Debug("Seeded categories", zap.Int("count", result.Categories))
	}
	categoryIDs := make(map[string]int64, len(categories))
	for _, category := range categories {
		categoryIDs[category.Name] = category.ID
	}

	// 3. Enclosures
	enclosures, err := store.ListEnclosures(ctx, db.EnclosureFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list enclosures: %w", err)
	}
	if len(enclosures) == 0 {
		for _, template := range seedEnclosures {
			enclosure := template.Clone()
			enclosure.RemainingCapacity = enclosure.Size
			enclosure.ZooID = model.ID(result.ZooID)
			if err := store.InsertEnclosure(ctx, &enclosure); err != nil {
				return nil, fmt.Errorf("failed to insert enclosure %s: %w", enclosure.Name, err)
			}
			result.Enclosures++
		}
		logger.Debug("Seeded enclosures", zap.Int("count", result.Enclosures))
	}

	// 4. Animals
	animals, err := store.ListAnimals(ctx, db.AnimalFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list animals: %w", err)
	}
	if len(animals) == 0 {
		animalIDs := make(map[string]int64, len(seedAnimals))
		for _, seed := range seedAnimals {
			animal := seed.animal.Clone()
			if id, ok := categoryIDs[seed.category]; ok {
				animal.CategoryID = model.ID(id)
			}
			if err := store.InsertAnimal(ctx, &animal); err != nil {
				return nil, fmt.Errorf("failed to insert animal %s: %w", animal.Name, err)
			}
			animalIDs[animal.Name] = animal.ID
			result.Animals++
		}

		for predator, prey := range seedPrey {
			if err := store.SetPrey(ctx, animalIDs[predator], []int64{animalIDs[prey]}); err != nil {
				return nil, fmt.Errorf("failed to link %s to prey %s: %w", predator, prey, err)
			}
		}
		logger.Debug("Seeded animals", zap.Int("count", result.Animals))
	}

	logger.Info("Seeding complete",
		zap.Int("zoos", result.Zoos),
		zap.Int("categories", result.Categories),
		zap.Int("enclosures", result.Enclosures),
		zap.Int("animals", result.Animals))

	return result, nil
}
