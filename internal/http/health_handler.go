package http

import (
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"gorm.io/gorm"
)

// healthReport is the health check payload. The analytics API is useless
// without its database, so a failed ping degrades the whole report.
type healthReport struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthIndexAction reports process liveness and database reachability.
func HealthIndexAction(ctx *cartridge.Context) error {
	report := healthReport{
		Status:    "ok",
		Database:  "ok",
		CheckedAt: time.Now().UTC(),
	}

	if err := pingDatabase(ctx.DBManager.GetConnection()); err != nil {
		ctx.Logger.Error("Health check database ping failed", slog.Any("error", err))
		report.Status = "degraded"
		report.Database = "unreachable"
	}

	return ctx.JSON(report)
}

func pingDatabase(db *gorm.DB) error {
	if db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
