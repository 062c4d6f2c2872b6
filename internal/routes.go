// Package internal contains core application functionality
package internal

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/karloscodes/cartridge"
	cartridgemiddleware "github.com/karloscodes/cartridge/middleware"

	v1 "devfolio/api/v1"
	"devfolio/internal/config"
	"devfolio/internal/http"
)

// publicCORSConfig returns the standard CORS configuration for public endpoints.
// The tracking endpoints accept cross-origin requests from the portfolio pages.
var publicCORSConfig = &cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Referrer, User-Agent",
}

// MountAppRoutes mounts all application routes using cartridge's route API
func MountAppRoutes(srv *cartridge.Server) {
	cfg := config.GetConfig()

	// Helper to conditionally apply rate limiting (only in production)
	// In development/test, rate limiting would interfere with testing
	conditionalRateLimiter := func(limiter fiber.Handler) fiber.Handler {
		return func(c *fiber.Ctx) error {
			if cfg.IsProduction() {
				return limiter(c)
			}
			return c.Next()
		}
	}

	// Rate limiter for public ingestion endpoints (70 requests per minute per IP)
	// handles legitimate tracking traffic while preventing abuse
	publicRateLimiter := conditionalRateLimiter(cartridgemiddleware.RateLimiter(
		cartridgemiddleware.WithMax(70),
		cartridgemiddleware.WithDuration(time.Minute),
	))

	// Public ingestion config: rate limiting + permissive CORS. CORS runs
	// first so rejected requests still carry CORS headers.
	publicAPIConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		WriteConcurrency: false,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	// Tracker script delivery: rate limited, CORS for cross-origin <script> loads
	trackerConfig := &cartridge.RouteConfig{
		EnableCORS:       true,
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
		CORSConfig:       publicCORSConfig,
	}

	// Stats endpoints are read-only; same rate limit, no CORS needed since
	// the dashboard is served from this origin.
	statsConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{publicRateLimiter},
	}

	// Health check endpoint
	srv.Get("/_health", http.HealthIndexAction)
	srv.Head("/_health", http.HealthIndexAction)

	// === INGESTION ROUTES ===
	srv.Post("/api/analytics/pageview", v1.CreatePageViewHandler, publicAPIConfig)
	srv.Options("/api/analytics/pageview", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)
	srv.Post("/api/analytics/contact", v1.CreateContactHandler, publicAPIConfig)
	srv.Options("/api/analytics/contact", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)
	srv.Post("/api/analytics/event", v1.CreateEventHandler, publicAPIConfig)
	srv.Options("/api/analytics/event", func(ctx *cartridge.Context) error {
		return ctx.SendStatus(fiber.StatusNoContent)
	}, publicAPIConfig)

	// === STATS ROUTES ===
	srv.Get("/api/analytics/overview", v1.GetOverviewHandler, statsConfig)
	srv.Get("/api/analytics/pageviews", v1.GetPageViewStatsHandler, statsConfig)
	srv.Get("/api/analytics/traffic", v1.GetTrafficStatsHandler, statsConfig)
	srv.Get("/api/analytics/contacts", v1.GetContactStatsHandler, statsConfig)

	// === TRACKER SCRIPT ===
	srv.Get("/api/analytics/tracker.js", v1.GetTrackerAction, trackerConfig)
}
