package v1

import (
	"context"
	"net/http"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"devfolio/internal/analytics"
	"devfolio/internal/pkg/async"
)

const (
	errFetchOverview  = "Failed to fetch analytics data"
	errFetchPageViews = "Failed to fetch page views data"
	errFetchTraffic   = "Failed to fetch traffic data"
	errFetchContacts  = "Failed to fetch contact data"
)

// CountryViews is the wire shape of one top-countries entry. The stored
// ISO code is converted to a display name before serialization.
type CountryViews struct {
	Country string `json:"country"`
	Views   int    `json:"views"`
}

// BrowserViews is the wire shape of one top-browsers entry.
type BrowserViews struct {
	Browser string `json:"browser"`
	Views   int    `json:"views"`
}

// DeviceViews is the wire shape of one top-devices entry.
type DeviceViews struct {
	Device string `json:"device"`
	Views  int    `json:"views"`
}

// TrafficResponse is the traffic stats payload.
type TrafficResponse struct {
	TotalViews   int64                 `json:"totalViews"`
	DailyViews   []analytics.DateViews `json:"dailyViews"`
	TopCountries []CountryViews        `json:"topCountries"`
	TopBrowsers  []BrowserViews        `json:"topBrowsers"`
	TopDevices   []DeviceViews         `json:"topDevices"`
}

// OverviewResponse combines all three stat groups for the dashboard poll.
type OverviewResponse struct {
	PageViews *analytics.PageViewStats `json:"pageViews"`
	Traffic   *TrafficResponse         `json:"traffic"`
	Contacts  *analytics.ContactStats  `json:"contacts"`
}

// GetPageViewStatsHandler serves the page view summary.
func GetPageViewStatsHandler(ctx *cartridge.Context) error {
	store := analytics.NewStore(ctx.DBManager.GetConnection(), ctx.Logger)
	stats, err := store.PageViewStats()
	if err != nil {
		ctx.Logger.Error("Error fetching page view stats", slog.Any("error", err))
		return serverError(ctx, errFetchPageViews)
	}
	return ctx.JSON(stats)
}

// GetTrafficStatsHandler serves the traffic breakdown.
func GetTrafficStatsHandler(ctx *cartridge.Context) error {
	store := analytics.NewStore(ctx.DBManager.GetConnection(), ctx.Logger)
	stats, err := store.TrafficStats()
	if err != nil {
		ctx.Logger.Error("Error fetching traffic stats", slog.Any("error", err))
		return serverError(ctx, errFetchTraffic)
	}
	return ctx.JSON(convertTrafficStats(stats))
}

// GetContactStatsHandler serves the contact submission summary.
func GetContactStatsHandler(ctx *cartridge.Context) error {
	store := analytics.NewStore(ctx.DBManager.GetConnection(), ctx.Logger)
	stats, err := store.ContactStats()
	if err != nil {
		ctx.Logger.Error("Error fetching contact stats", slog.Any("error", err))
		return serverError(ctx, errFetchContacts)
	}
	return ctx.JSON(stats)
}

// GetOverviewHandler serves the combined overview the dashboard polls
// every 30 seconds. The three stat groups are independent queries and run
// concurrently.
func GetOverviewHandler(ctx *cartridge.Context) error {
	store := analytics.NewStore(ctx.DBManager.GetConnection(), ctx.Logger)

	tasks := []async.Task{
		{
			Name: "pageViews",
			Execute: func() (interface{}, error) {
				return store.PageViewStats()
			},
		},
		{
			Name: "traffic",
			Execute: func() (interface{}, error) {
				return store.TrafficStats()
			},
		},
		{
			Name: "contacts",
			Execute: func() (interface{}, error) {
				return store.ContactStats()
			},
		},
	}

	pool := async.NewPool(len(tasks))
	results := pool.Execute(context.Background(), tasks)

	for _, result := range results {
		if result.Err != nil {
			ctx.Logger.Error("Error fetching analytics overview",
				slog.String("task", result.Name),
				slog.Any("error", result.Err))
			return serverError(ctx, errFetchOverview)
		}
	}

	response := OverviewResponse{
		PageViews: results["pageViews"].Data.(*analytics.PageViewStats),
		Traffic:   convertTrafficStats(results["traffic"].Data.(*analytics.TrafficStats)),
		Contacts:  results["contacts"].Data.(*analytics.ContactStats),
	}

	return ctx.JSON(response)
}

func serverError(ctx *cartridge.Context, message string) error {
	return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": message})
}

// convertTrafficStats maps the internal breakdowns to their wire shapes,
// resolving country codes to display names.
func convertTrafficStats(stats *analytics.TrafficStats) *TrafficResponse {
	response := &TrafficResponse{
		TotalViews:   stats.TotalViews,
		DailyViews:   stats.DailyViews,
		TopCountries: convertCountryStats(stats.TopCountries),
		TopBrowsers:  make([]BrowserViews, len(stats.TopBrowsers)),
		TopDevices:   make([]DeviceViews, len(stats.TopDevices)),
	}

	for i, item := range stats.TopBrowsers {
		response.TopBrowsers[i] = BrowserViews{Browser: item.Name, Views: item.Views}
	}
	for i, item := range stats.TopDevices {
		response.TopDevices[i] = DeviceViews{Device: item.Name, Views: item.Views}
	}

	return response
}

// convertCountryStats resolves stored ISO codes to common country names.
// Unresolvable codes are upper-cased and passed through.
func convertCountryStats(items []analytics.FieldCount) []CountryViews {
	caser := cases.Upper(language.AmericanEnglish)
	countries := gountries.New()

	result := make([]CountryViews, len(items))
	for i, item := range items {
		country, err := countries.FindCountryByAlpha(item.Name)
		if err != nil {
			result[i] = CountryViews{Country: caser.String(item.Name), Views: item.Views}
			continue
		}
		result[i] = CountryViews{Country: country.Name.Common, Views: item.Views}
	}
	return result
}
