package di

import (
	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/clients/blinkr"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/config"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/analytics"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/ingest"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/records"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/targets"
)

// Wire initializes all dependencies in order: databases, repositories,
// then services. On any failure the partially opened databases are closed.
func Wire(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{}

	if err := initDatabases(cfg.DataDir, log, c); err != nil {
		c.Close()
		return nil, err
	}

	// Repositories
	c.RecordRepo = records.NewRepository(c.PortfolioDB.Conn(), domain.DatasetPortfolio, log)
	c.FraudRecordRepo = records.NewRepository(c.PortfolioDB.Conn(), domain.DatasetFraud, log)
	c.RunRepo = ingest.NewRunRepository(c.LedgerDB.Conn(), log)
	c.TargetsRepo = targets.NewRepository(c.PortfolioDB.Conn(), log)

	// Read-path state, one snapshot per dataset
	c.Snapshots = records.NewSnapshotStore()
	c.FraudSnapshots = records.NewSnapshotStore()

	// Clients
	c.SourceClient = blinkr.NewClient(cfg.SourceURL, cfg.FetchTimeout, log)
	c.FraudClient = blinkr.NewScreenedClient(cfg.FraudSourceURL, cfg.FetchTimeout, log)

	// Services. The fraud fallback seed is offset so demo mode shows two
	// distinguishable portfolios instead of identical ones.
	c.IngestService = ingest.NewService(
		c.SourceClient,
		c.RecordRepo,
		c.Snapshots,
		c.RunRepo,
		ingest.Config{
			Dataset:         domain.DatasetPortfolio,
			FetchTimeout:    cfg.FetchTimeout,
			MockRecordCount: cfg.MockRecordCount,
			MockSeed:        cfg.MockSeed,
		},
		log,
	)
	c.FraudIngestService = ingest.NewService(
		c.FraudClient,
		c.FraudRecordRepo,
		c.FraudSnapshots,
		c.RunRepo,
		ingest.Config{
			Dataset:         domain.DatasetFraud,
			FetchTimeout:    cfg.FetchTimeout,
			MockRecordCount: cfg.MockRecordCount,
			MockSeed:        cfg.MockSeed + 1,
		},
		log,
	)
	c.AnalyticsService = analytics.NewService(c.Snapshots, log)
	c.FraudAnalyticsService = analytics.NewService(c.FraudSnapshots, log)

	log.Info().Msg("Dependencies wired")
	return c, nil
}
