package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultLogsDir = "logs"
)

// DatabaseConfig selects and locates the repository backend
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=memory sqlite postgres"`
	Path   string `yaml:"path,omitempty" validate:"required_if=Driver sqlite"`
	URL    string `yaml:"url,omitempty" validate:"required_if=Driver postgres"`
}

// LocationConfig is where the zoo is, used for sunrise and sunset times
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `yaml:"longitude" validate:"min=-180,max=180"`
	Timezone  string  `yaml:"timezone" validate:"required"`
}

// FeedingSchedule defines when animals in an enclosure are fed.
// An empty Enclosure makes the schedule the default for every enclosure.
type FeedingSchedule struct {
	Enclosure string `yaml:"enclosure,omitempty"`
	RRule     string `yaml:"rrule" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	Database         DatabaseConfig    `yaml:"database"`
	Location         LocationConfig    `yaml:"location"`
	FeedingSchedules []FeedingSchedule `yaml:"feedingSchedules,omitempty" validate:"dive"`
	LogsDir          string            `yaml:"logsDir,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from zoo_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile()
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.LogsDir == "" {
		cfg.LogsDir = defaultLogsDir
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the timezone and rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := time.LoadLocation(cfg.Location.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Location.Timezone, err)
	}

	// Validate rrule syntax for each schedule
	for i, schedule := range cfg.FeedingSchedules {
		if _, err := rrule.StrToRRule(schedule.RRule); err != nil {
			return fmt.Errorf("invalid rrule in feedingSchedules[%d]: %w", i, err)
		}
	}

	return nil
}

// TimeLocation returns the configured timezone. Validate has already checked it loads.
func (c *Config) TimeLocation() *time.Location {
	loc, err := time.LoadLocation(c.Location.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ScheduleFor returns the feeding schedule for an enclosure name.
// A schedule naming the enclosure wins over the default one.
func (c *Config) ScheduleFor(enclosureName string) *FeedingSchedule {
	var fallback *FeedingSchedule
	for i := range c.FeedingSchedules {
		schedule := &c.FeedingSchedules[i]
		if schedule.Enclosure == enclosureName && enclosureName != "" {
			return schedule
		}
		if schedule.Enclosure == "" && fallback == nil {
			fallback = schedule
		}
	}
	return fallback
}

// findConfigFile searches for zoo_config.yaml in current directory and home directory
func findConfigFile() (string, error) {
	configFileName := "zoo_config.yaml"

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
