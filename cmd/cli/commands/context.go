package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/zoo-enclosures/internal/config"
	"github.com/jakechorley/zoo-enclosures/pkg/db"
	"github.com/jakechorley/zoo-enclosures/pkg/suncalc"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Database db.Repository
	Sun      *suncalc.SunCalc
	Logger   *zap.Logger
	Ctx      context.Context

	// Now is the clock used for "now" triggers and feeding times
	Now func() time.Time
}

func (app *AppContext) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}
