package analytics

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"
)

// Store is the persistence facade for the analytics subsystem. The write
// side is append-only; the read side recomputes every aggregate on demand.
// Tests substitute an in-memory implementation of the same contract.
type Store interface {
	CreatePageView(view *PageView) error
	CreateContactSubmission(submission *ContactSubmission) error
	CreateAnalyticsEvent(event *AnalyticsEvent) error

	PageViewStats() (*PageViewStats, error)
	TrafficStats() (*TrafficStats, error)
	ContactStats() (*ContactStats, error)
}

// GormStore implements Store on top of the application's SQLite database.
type GormStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the given database connection.
func NewStore(db *gorm.DB, logger *slog.Logger) *GormStore {
	return &GormStore{db: db, logger: logger}
}

var _ Store = (*GormStore)(nil)

// CreatePageView inserts one page view row. The timestamp is assigned here
// from the server clock; clients never supply it.
func (s *GormStore) CreatePageView(view *PageView) error {
	view.Timestamp = time.Now().UTC()
	err := sqlite.PerformWrite(s.logger, s.db, func(tx *gorm.DB) error {
		return tx.Create(view).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store page view: %w", err)
	}
	return nil
}

// CreateContactSubmission inserts one contact submission row.
func (s *GormStore) CreateContactSubmission(submission *ContactSubmission) error {
	submission.Timestamp = time.Now().UTC()
	err := sqlite.PerformWrite(s.logger, s.db, func(tx *gorm.DB) error {
		return tx.Create(submission).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store contact submission: %w", err)
	}
	return nil
}

// CreateAnalyticsEvent inserts one generic event row.
func (s *GormStore) CreateAnalyticsEvent(event *AnalyticsEvent) error {
	event.Timestamp = time.Now().UTC()
	err := sqlite.PerformWrite(s.logger, s.db, func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
	if err != nil {
		return fmt.Errorf("failed to store analytics event: %w", err)
	}
	return nil
}

// PageViewStats recomputes the page view summary.
func (s *GormStore) PageViewStats() (*PageViewStats, error) {
	return GetPageViewStats(s.db)
}

// TrafficStats recomputes the traffic breakdown.
func (s *GormStore) TrafficStats() (*TrafficStats, error) {
	return GetTrafficStats(s.db)
}

// ContactStats recomputes the contact submission summary.
func (s *GormStore) ContactStats() (*ContactStats, error) {
	return GetContactStats(s.db)
}
