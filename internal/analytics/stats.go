package analytics

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	// statsWindowDays is the trailing window for the daily time series.
	// Totals, uniques and top-N breakdowns are deliberately all-time.
	statsWindowDays = 7

	topLimit    = 5
	recentLimit = 10
)

// PageCount is one entry of a top-pages breakdown.
type PageCount struct {
	Page  string `json:"page"`
	Views int    `json:"views"`
}

// FieldCount is one entry of a top-N breakdown over a single column
// (country, browser, device).
type FieldCount struct {
	Name  string `json:"name"`
	Views int    `json:"views"`
}

// DateViews is one calendar-day bucket of page views.
type DateViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// DateSubmissions is one calendar-day bucket of contact submissions.
type DateSubmissions struct {
	Date        string `json:"date"`
	Submissions int    `json:"submissions"`
}

// PageViewStats is the dashboard summary over the page_views table.
type PageViewStats struct {
	TotalViews     int64      `json:"totalViews"`
	UniqueVisitors int64      `json:"uniqueVisitors"`
	TopPages       []PageCount `json:"topPages"`
	RecentViews    []PageView  `json:"recentViews"`
}

// TrafficStats is the traffic breakdown over the page_views table.
type TrafficStats struct {
	TotalViews   int64        `json:"totalViews"`
	DailyViews   []DateViews  `json:"dailyViews"`
	TopCountries []FieldCount `json:"topCountries"`
	TopBrowsers  []FieldCount `json:"topBrowsers"`
	TopDevices   []FieldCount `json:"topDevices"`
}

// ContactStats is the dashboard summary over the contact_submissions table.
type ContactStats struct {
	TotalSubmissions  int64               `json:"totalSubmissions"`
	RecentSubmissions []ContactSubmission `json:"recentSubmissions"`
	DailySubmissions  []DateSubmissions   `json:"dailySubmissions"`
}

// windowStart returns the lower bound of the trailing daily-bucket window.
func windowStart() time.Time {
	return time.Now().UTC().AddDate(0, 0, -statsWindowDays)
}

// GetPageViewStats computes totals, all-time unique visitors, the top pages
// and the most recent views. Every call rescans the table; there is no
// caching between dashboard polls.
func GetPageViewStats(db *gorm.DB) (*PageViewStats, error) {
	stats := &PageViewStats{
		TopPages:    []PageCount{},
		RecentViews: []PageView{},
	}

	if err := db.Model(&PageView{}).Count(&stats.TotalViews).Error; err != nil {
		return nil, fmt.Errorf("error counting page views: %w", err)
	}

	// Views recorded without a session identity carry an empty string and
	// must not count as a visitor of their own
	if err := db.Model(&PageView{}).
		Where("session_id != ''").
		Distinct("session_id").
		Count(&stats.UniqueVisitors).Error; err != nil {
		return nil, fmt.Errorf("error counting unique visitors: %w", err)
	}

	if err := db.Model(&PageView{}).
		Select("page, COUNT(*) AS views").
		Group("page").
		Order("views DESC").
		Limit(topLimit).
		Scan(&stats.TopPages).Error; err != nil {
		return nil, fmt.Errorf("error fetching top pages: %w", err)
	}

	if err := db.Model(&PageView{}).
		Order("timestamp DESC").
		Limit(recentLimit).
		Find(&stats.RecentViews).Error; err != nil {
		return nil, fmt.Errorf("error fetching recent views: %w", err)
	}

	return stats, nil
}

// GetTrafficStats computes the daily time series over the trailing window
// plus the all-time country/browser/device breakdowns.
func GetTrafficStats(db *gorm.DB) (*TrafficStats, error) {
	stats := &TrafficStats{
		DailyViews:   []DateViews{},
		TopCountries: []FieldCount{},
		TopBrowsers:  []FieldCount{},
		TopDevices:   []FieldCount{},
	}

	if err := db.Model(&PageView{}).Count(&stats.TotalViews).Error; err != nil {
		return nil, fmt.Errorf("error counting page views: %w", err)
	}

	if err := db.Model(&PageView{}).
		Select("DATE(timestamp) AS date, COUNT(*) AS views").
		Where("timestamp >= ?", windowStart()).
		Group("DATE(timestamp)").
		Order("date ASC").
		Scan(&stats.DailyViews).Error; err != nil {
		return nil, fmt.Errorf("error fetching daily views: %w", err)
	}

	topCountries, err := topFieldCounts(db, "country", "country IS NOT NULL AND country != ''")
	if err != nil {
		return nil, fmt.Errorf("error fetching top countries: %w", err)
	}
	stats.TopCountries = topCountries

	topBrowsers, err := topFieldCounts(db, "browser", "browser != ''")
	if err != nil {
		return nil, fmt.Errorf("error fetching top browsers: %w", err)
	}
	stats.TopBrowsers = topBrowsers

	topDevices, err := topFieldCounts(db, "device", "device != ''")
	if err != nil {
		return nil, fmt.Errorf("error fetching top devices: %w", err)
	}
	stats.TopDevices = topDevices

	return stats, nil
}

// topFieldCounts runs a top-N group-by over a single page_views column.
// Ties break arbitrarily; callers must not rely on a stable order between
// equal counts.
func topFieldCounts(db *gorm.DB, column, condition string) ([]FieldCount, error) {
	results := []FieldCount{}
	err := db.Model(&PageView{}).
		Select(column+" AS name, COUNT(*) AS views").
		Where(condition).
		Group(column).
		Order("views DESC").
		Limit(topLimit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetContactStats computes totals, the recent submissions and the daily
// submission buckets over the trailing window.
func GetContactStats(db *gorm.DB) (*ContactStats, error) {
	stats := &ContactStats{
		RecentSubmissions: []ContactSubmission{},
		DailySubmissions:  []DateSubmissions{},
	}

	if err := db.Model(&ContactSubmission{}).Count(&stats.TotalSubmissions).Error; err != nil {
		return nil, fmt.Errorf("error counting contact submissions: %w", err)
	}

	if err := db.Model(&ContactSubmission{}).
		Order("timestamp DESC").
		Limit(recentLimit).
		Find(&stats.RecentSubmissions).Error; err != nil {
		return nil, fmt.Errorf("error fetching recent submissions: %w", err)
	}

	if err := db.Model(&ContactSubmission{}).
		Select("DATE(timestamp) AS date, COUNT(*) AS submissions").
		Where("timestamp >= ?", windowStart()).
		Group("DATE(timestamp)").
		Order("date ASC").
		Scan(&stats.DailySubmissions).Error; err != nil {
		return nil, fmt.Errorf("error fetching daily submissions: %w", err)
	}

	return stats, nil
}
