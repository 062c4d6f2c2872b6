// Package seeder generates demo analytics data for development dashboards.
package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"log/slog"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"devfolio/internal/analytics"
)

// Seeder handles the demo data seeding process.
type Seeder struct {
	DBManager cartridge.DBManager
	Logger    *slog.Logger
	ViewCount int
}

// NewSeeder creates a new seeder instance
func NewSeeder(dbManager cartridge.DBManager, logger *slog.Logger, viewCount int) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{
		DBManager: dbManager,
		Logger:    logger,
		ViewCount: viewCount,
	}
}

// Visitor journey templates across the portfolio pages.
var journeyTemplates = [][]string{
	{"/", "/about", "/contact"},
	{"/", "/projects", "/resume"},
	{"/", "/projects", "/projects/portfolio-site", "/contact"},
	{"/", "/skills", "/projects"},
	{"/resume"},
	{"/", "/about", "/skills", "/resume", "/contact"},
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
}

var referrers = []string{
	"",
	"https://www.google.com/",
	"https://github.com/",
	"https://news.ycombinator.com/",
	"https://www.linkedin.com/",
}

var eventTemplates = []struct {
	eventType string
	eventData map[string]interface{}
}{
	{eventType: "resume_download", eventData: map[string]interface{}{"format": "pdf"}},
	{eventType: "nav_click", eventData: map[string]interface{}{"target": "projects"}},
	{eventType: "project_link_click", eventData: map[string]interface{}{"project": "portfolio-site"}},
	{eventType: "theme_toggle", eventData: map[string]interface{}{"theme": "dark"}},
}

// Seed fills the analytics tables with a week of plausible traffic.
func (s *Seeder) Seed(ctx context.Context) error {
	start := time.Now()
	s.Logger.Info("Seeding demo analytics data...", slog.Int("viewCount", s.ViewCount))

	db := s.DBManager.GetConnection()
	viewsCreated := 0

	for viewsCreated < s.ViewCount {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		sessionID := fmt.Sprintf("session_%d_%06d", time.Now().UnixMilli(), rand.IntN(1000000))
		userAgent := userAgents[rand.IntN(len(userAgents))]
		journey := journeyTemplates[rand.IntN(len(journeyTemplates))]
		referrer := referrers[rand.IntN(len(referrers))]

		// Spread sessions across the trailing week
		sessionStart := time.Now().UTC().
			AddDate(0, 0, -rand.IntN(7)).
			Add(-time.Duration(rand.IntN(12)) * time.Hour)

		for step, page := range journey {
			view := &analytics.PageView{
				Page:      page,
				SessionID: sessionID,
				UserAgent: userAgent,
				IPAddress: randomIP(),
				Browser:   analytics.BrowserFromUserAgent(userAgent),
				Device:    analytics.DeviceFromUserAgent(userAgent),
				Timestamp: sessionStart.Add(time.Duration(step) * 45 * time.Second),
			}
			if step == 0 && referrer != "" {
				view.Referrer = &referrer
			}

			err := sqlite.PerformWrite(s.Logger, db, func(tx *gorm.DB) error {
				return tx.Create(view).Error
			})
			if err != nil {
				return fmt.Errorf("failed to seed page view: %w", err)
			}
			viewsCreated++
		}

		// Roughly one in four sessions fires a custom event
		if rand.IntN(4) == 0 {
			if err := s.seedEvent(db, sessionID, sessionStart); err != nil {
				return err
			}
		}

		// Occasional contact submission
		if rand.IntN(10) == 0 {
			if err := s.seedContact(db, sessionStart); err != nil {
				return err
			}
		}
	}

	s.Logger.Info("Seeding completed",
		slog.Int("viewsCreated", viewsCreated),
		slog.Duration("elapsed", time.Since(start)))
	return nil
}

func (s *Seeder) seedEvent(db *gorm.DB, sessionID string, at time.Time) error {
	tmpl := eventTemplates[rand.IntN(len(eventTemplates))]
	data, _ := json.Marshal(tmpl.eventData)

	event := &analytics.AnalyticsEvent{
		EventType: tmpl.eventType,
		EventData: string(data),
		SessionID: sessionID,
		Timestamp: at.Add(time.Duration(rand.IntN(300)) * time.Second),
	}
	err := sqlite.PerformWrite(s.Logger, db, func(tx *gorm.DB) error {
		return tx.Create(event).Error
	})
	if err != nil {
		return fmt.Errorf("failed to seed analytics event: %w", err)
	}
	return nil
}

func (s *Seeder) seedContact(db *gorm.DB, at time.Time) error {
	n := rand.IntN(1000)
	submission := &analytics.ContactSubmission{
		Name:      fmt.Sprintf("Demo Visitor %d", n),
		Email:     fmt.Sprintf("visitor%d@example.com", n),
		Subject:   "Project inquiry",
		Message:   "Hi, I saw your portfolio and would like to talk about a project.",
		IPAddress: randomIP(),
		Timestamp: at.Add(time.Duration(rand.IntN(600)) * time.Second),
	}
	err := sqlite.PerformWrite(s.Logger, db, func(tx *gorm.DB) error {
		return tx.Create(submission).Error
	})
	if err != nil {
		return fmt.Errorf("failed to seed contact submission: %w", err)
	}
	return nil
}

func randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", 1+rand.IntN(223), rand.IntN(256), rand.IntN(256), 1+rand.IntN(254))
}
