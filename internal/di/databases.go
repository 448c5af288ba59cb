package di

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/internal/config"
	"github.com/aristath/perfstats/internal/database"
)

// pricesDBFile is the cache database file name inside DataDir
const pricesDBFile = "prices.db"

// InitializeDatabases opens the price cache database and applies its schema
func InitializeDatabases(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// prices.db - fetched series, always re-fetchable
	pricesDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, pricesDBFile),
		Profile: database.ProfileCache,
		Name:    "prices",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize prices database: %w", err)
	}
	container.PricesDB = pricesDB

	if err := pricesDB.Migrate(ctx); err != nil {
		pricesDB.Close()
		return nil, fmt.Errorf("failed to apply schema to %s: %w", pricesDB.Name(), err)
	}

	log.Info().Str("path", pricesDB.Path()).Msg("Database initialized and schema applied")

	return container, nil
}
