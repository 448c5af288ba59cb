package di

import (
	"github.com/aristath/perfstats/internal/analytics"
	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/internal/database"
	"github.com/aristath/perfstats/internal/export"
	"github.com/aristath/perfstats/internal/prices"
	"github.com/aristath/perfstats/internal/scheduler"
)

// Container holds all dependencies for the application. It is created by
// Wire and shared by the server and the CLI.
type Container struct {
	// Databases
	PricesDB *database.DB

	// Clients
	TiingoClient *tiingo.Client // nil in offline mode or without a token

	// Services
	PriceCache       *prices.Cache
	PriceService     *prices.Service
	AnalyticsService *analytics.Service
	Uploader         export.Uploader // nil unless S3 export is configured

	// Jobs
	Scheduler *scheduler.Scheduler
}

// Close releases the databases. It is safe to call on a partially built
// container.
func (c *Container) Close() error {
	if c == nil || c.PricesDB == nil {
		return nil
	}
	return c.PricesDB.Close()
}
