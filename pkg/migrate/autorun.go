package migrate

import (
	"context"
	"fmt"

	"github.com/rimae/rimae-backend/pkg/config"
	"github.com/rimae/rimae-backend/pkg/db"
	"github.com/rimae/rimae-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on boot when running in dev with
// RIMAE_AUTO_MIGRATE enabled. It is a no-op everywhere else.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "running goose migrations (dev auto-run)")
	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
