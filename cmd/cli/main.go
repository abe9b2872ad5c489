package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/cmd/cli/commands"
	"github.com/jakechorley/zoo-enclosures/internal/config"
	"github.com/jakechorley/zoo-enclosures/pkg/core/services"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
	"github.com/jakechorley/zoo-enclosures/pkg/postgres"
	"github.com/jakechorley/zoo-enclosures/pkg/sqlite"
	"github.com/jakechorley/zoo-enclosures/pkg/suncalc"
	"github.com/jakechorley/zoo-enclosures/pkg/utils/logging"
)

var (
	env        string
	configPath string
)

func main() {
	app := &commands.AppContext{Ctx: context.Background()}
	rootCmd := newRootCmd(app)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, commands.FormatError(err))
		os.Exit(1)
	}
}

func newRootCmd(app *commands.AppContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "zoo",
		Short:         "Zoo CLI - Check and assign animal enclosures",
		Long:          `A CLI tool for checking animals against their enclosures, auto-assigning enclosures and reporting animal activity and feeding.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(app)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Database != nil {
				app.Database.Close()
			}
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to zoo_config.yaml (default: current then home directory)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.CheckAnimalCmd(app))
	rootCmd.AddCommand(commands.CheckEnclosureCmd(app))
	rootCmd.AddCommand(commands.CheckZooCmd(app))
	rootCmd.AddCommand(commands.AutoAssignCmd(app))
	rootCmd.AddCommand(commands.DayNightEventCmd(app))
	rootCmd.AddCommand(commands.FeedingTimeCmd(app))
	rootCmd.AddCommand(commands.ListEnclosuresCmd(app))
	rootCmd.AddCommand(commands.ListAnimalsCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.SeedCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app, os.Stdin))

	return rootCmd
}

// initApp loads config and sets up the logger, sun calculator and database
func initApp(app *commands.AppContext) error {
	var err error

	if configPath != "" {
		app.Cfg, err = config.LoadFromPath(configPath)
	} else {
		app.Cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app.Logger, err = logging.InitLogger(env, app.Cfg.LogsDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application",
		zap.String("environment", env),
		zap.String("driver", app.Cfg.Database.Driver))

	loc := app.Cfg.TimeLocation()
	app.Sun = suncalc.NewSunCalc(app.Cfg.Location.Latitude, app.Cfg.Location.Longitude, loc)
	app.Logger.Debug("Sun calculator initialized",
		zap.Float64("latitude", app.Cfg.Location.Latitude),
		zap.Float64("longitude", app.Cfg.Location.Longitude),
		zap.String("timezone", loc.String()))

	app.Database, err = openDatabase(app.Ctx, app.Cfg.Database, app.Logger)
	if err != nil {
		return err
	}
	app.Logger.Info("Database initialized successfully")

	return nil
}

// openDatabase connects to the configured backend. The memory store is seeded
// with the sample zoo since it starts empty on every run.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (db.Repository, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		logger.Info("Using in-memory database")
		memDB := db.NewMemoryDB()
		if _, err := services.SeedZoo(ctx, memDB, logger); err != nil {
			return nil, fmt.Errorf("failed to seed in-memory database: %w", err)
		}
		return memDB, nil

	case config.DriverSQLite:
		logger.Info("Connecting to SQLite database", zap.String("path", cfg.Path))
		sqliteDB, err := sqlite.NewDB(ctx, cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return sqliteDB, nil

	case config.DriverPostgres:
		logger.Info("Connecting to PostgreSQL database")
		pgDB, err := postgres.NewDB(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pgDB.RunMigrations(ctx); err != nil {
			pgDB.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return pgDB, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
