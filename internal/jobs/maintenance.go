package jobs

import (
	"log/slog"

	"devfolio/internal/database"
	"devfolio/internal/geoip"
)

// MaintenanceJob performs periodic database housekeeping. Analytics rows
// are never deleted; the only recurring work is compacting the WAL and
// picking up a freshly downloaded GeoLite2 database.
type MaintenanceJob struct {
	dbManager *database.DBManager
	logger    *slog.Logger
}

// NewMaintenanceJob creates the maintenance job.
func NewMaintenanceJob(dbManager *database.DBManager, logger *slog.Logger) *MaintenanceJob {
	return &MaintenanceJob{
		dbManager: dbManager,
		logger:    logger,
	}
}

// Run checkpoints the WAL and reloads the GeoLite2 database from disk.
func (j *MaintenanceJob) Run() error {
	j.logger.Info("Starting database maintenance")

	if err := j.dbManager.CheckpointWAL("TRUNCATE"); err != nil {
		j.logger.Error("Failed to checkpoint WAL", slog.Any("error", err))
		return err
	}

	geoip.ReloadGeoDB()

	j.logger.Info("Database maintenance completed")
	return nil
}
