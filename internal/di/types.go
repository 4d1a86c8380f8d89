// Package di wires application dependencies: databases, repositories and
// services, in that order, via constructor injection.
package di

import (
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/clients/blinkr"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/database"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/analytics"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/ingest"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/records"
	"github.com/Deep6432/Blinkrloan-Dashboard/internal/modules/targets"
)

// Container holds all application dependencies
type Container struct {
	// Databases
	PortfolioDB *database.DB // loan_records, monthly_targets
	LedgerDB    *database.DB // sync_runs (append-only)

	// Repositories
	RecordRepo      *records.Repository
	FraudRecordRepo *records.Repository
	RunRepo         *ingest.RunRepository
	TargetsRepo     *targets.Repository

	// State
	Snapshots      *records.SnapshotStore
	FraudSnapshots *records.SnapshotStore

	// Clients
	SourceClient *blinkr.Client
	FraudClient  *blinkr.Client

	// Services
	IngestService         *ingest.Service
	FraudIngestService    *ingest.Service
	AnalyticsService      *analytics.Service
	FraudAnalyticsService *analytics.Service
}

// Close releases every database held by the container
func (c *Container) Close() {
	if c.PortfolioDB != nil {
		_ = c.PortfolioDB.Close()
	}
	if c.LedgerDB != nil {
		_ = c.LedgerDB.Close()
	}
}
