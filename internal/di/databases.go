package di

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/database"
)

// initDatabases opens and migrates the two application databases:
// portfolio.db (normalized snapshot, standard profile) and ledger.db
// (append-only sync audit trail, ledger profile).
func initDatabases(dataDir string, log zerolog.Logger, c *Container) error {
	portfolioDB, err := database.New(database.Config{
		Path:    filepath.Join(dataDir, "portfolio.db"),
		Profile: database.ProfileStandard,
		Name:    "portfolio",
	})
	if err != nil {
		return fmt.Errorf("failed to open portfolio.db: %w", err)
	}
	if err := portfolioDB.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate portfolio.db: %w", err)
	}
	c.PortfolioDB = portfolioDB

	ledgerDB, err := database.New(database.Config{
		Path:    filepath.Join(dataDir, "ledger.db"),
		Profile: database.ProfileLedger,
		Name:    "ledger",
	})
	if err != nil {
		return fmt.Errorf("failed to open ledger.db: %w", err)
	}
	if err := ledgerDB.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate ledger.db: %w", err)
	}
	c.LedgerDB = ledgerDB

	log.Info().Str("data_dir", dataDir).Msg("Databases initialized")
	return nil
}
