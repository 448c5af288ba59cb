package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/perfstats/internal/analytics"
	"github.com/aristath/perfstats/internal/clients/tiingo"
	"github.com/aristath/perfstats/internal/config"
	"github.com/aristath/perfstats/internal/export"
	"github.com/aristath/perfstats/internal/prices"
)

// InitializeServices builds the client, the price and analytics services and
// the optional S3 uploader.
func InitializeServices(ctx context.Context, container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil || container.PricesDB == nil {
		return fmt.Errorf("container has no prices database")
	}

	var fetcher prices.Fetcher
	switch {
	case cfg.OfflineMode:
		log.Info().Msg("Offline mode enabled, prices are served from the cache only")
	case cfg.TiingoToken == "":
		log.Warn().Msg("No Tiingo API key configured, only cached prices are available")
	default:
		container.TiingoClient = tiingo.NewClient(cfg.TiingoToken, log)
		fetcher = container.TiingoClient
	}

	container.PriceCache = prices.NewCache(container.PricesDB, log)
	container.PriceService = prices.NewService(container.PriceCache, fetcher, cfg.OfflineMode, log)
	container.AnalyticsService = analytics.NewService(container.PriceService, analytics.Options{
		PeriodsPerYear: cfg.Analytics.PeriodsPerYear,
		RiskFreeRate:   cfg.Analytics.RiskFreeRate,
		RollingWindow:  cfg.Analytics.RollingWindow,
	}, log)

	if cfg.Export.S3Enabled() {
		uploader, err := export.NewS3Uploader(ctx, export.S3Config{
			Bucket:          cfg.Export.S3Bucket,
			Prefix:          cfg.Export.S3Prefix,
			Region:          cfg.Export.S3Region,
			Endpoint:        cfg.Export.S3Endpoint,
			AccessKeyID:     cfg.Export.S3AccessKeyID,
			SecretAccessKey: cfg.Export.S3SecretAccessKey,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 uploader: %w", err)
		}
		container.Uploader = uploader
	}

	return nil
}
