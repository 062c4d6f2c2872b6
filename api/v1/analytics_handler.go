package v1

import (
	"encoding/json"
	"net/http"
	"strings"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"devfolio/internal/analytics"
	"devfolio/internal/geoip"
	"devfolio/internal/notify"
)

const (
	errInvalidPageView = "Invalid page view data"
	errInvalidContact  = "Invalid contact data"
	errInvalidEvent    = "Invalid event data"
)

// contactNotifier delivers best-effort notifications after a contact
// submission is persisted. Nil falls back to log-only delivery.
var contactNotifier notify.Notifier

// SetContactNotifier installs an outbound notification provider.
func SetContactNotifier(n notify.Notifier) {
	contactNotifier = n
}

// CreatePageViewParams is the client payload for a page view. Everything
// else on the row is enriched server-side.
type CreatePageViewParams struct {
	Page      string `json:"page"`
	SessionID string `json:"sessionId"`
}

// CreateContactParams is the client payload for a contact submission.
type CreateContactParams struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateEventParams is the client payload for a generic event. EventData
// is opaque and stored serialized as-is.
type CreateEventParams struct {
	EventType string      `json:"eventType"`
	EventData interface{} `json:"eventData"`
	SessionID string      `json:"sessionId"`
}

// CreatePageViewHandler records one page view. The row is enriched with
// the request's user agent, resolved client IP, referrer, derived browser
// and device labels, and - when a GeoLite2 database is present - country
// and city.
func CreatePageViewHandler(ctx *cartridge.Context) error {
	var params CreatePageViewParams
	if err := ctx.Ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse page view request", slog.Any("error", err))
		return badRequest(ctx, errInvalidPageView)
	}

	if strings.TrimSpace(params.Page) == "" {
		ctx.Logger.Debug("Rejected page view without page path")
		return badRequest(ctx, errInvalidPageView)
	}

	userAgent := ctx.Get("User-Agent")
	ipAddress := getClientIP(ctx.Ctx)

	view := &analytics.PageView{
		Page:      params.Page,
		SessionID: params.SessionID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		Referrer:  optionalString(ctx.Get("Referer")),
		Browser:   analytics.BrowserFromUserAgent(userAgent),
		Device:    analytics.DeviceFromUserAgent(userAgent),
	}

	if country, city := geoip.LookupLocation(ipAddress); country != "" {
		view.Country = &country
		view.City = optionalString(city)
	}

	store := analytics.NewStore(ctx.DBManager.GetConnection(), ctx.Logger)
	if err := store.CreatePageView(view); err != nil {
		ctx.Logger.Error("Failed to record page view", slog.Any("error", err))
		return badRequest(ctx, errInvalidPageView)
	}

	ctx.Logger.Debug("Recorded page view",
		slog.String("page", view.Page),
		slog.String("sessionId", view.SessionID),
		slog.Uint64("id", uint64(view.ID)))

	return ctx.JSON(fiber.Map{"success": true, "id": view.ID})
}

// CreateContactHandler records one contact-form submission and dispatches
// the owner notification. Notification delivery is fire-and-forget; the
// submission row is already persisted by the time it runs.
func CreateContactHandler(ctx *cartridge.Context) error {
	var params CreateContactParams
	if err := ctx.Ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse contact request", slog.Any("error", err))
		return badRequest(ctx, errInvalidContact)
	}

	if missingAny(params.Name, params.Email, params.Subject, params.Message) {
		ctx.Logger.Debug("Rejected contact submission with missing fields")
		return badRequest(ctx, errInvalidContact)
	}

	submission := &analytics.ContactSubmission{
		Name:      params.Name,
		Email:     params.Email,
		Subject:   params.Subject,
		Message:   params.Message,
		IPAddress: getClientIP(ctx.Ctx),
	}

	store := analytics.NewStore(ctx.DBManager.GetConnection(), ctx.Logger)
	if err := store.CreateContactSubmission(submission); err != nil {
		ctx.Logger.Error("Failed to record contact submission", slog.Any("error", err))
		return badRequest(ctx, errInvalidContact)
	}

	notifier := contactNotifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(ctx.Logger)
	}
	notify.Dispatch(notifier, ctx.Logger, submission)

	ctx.Logger.Info("Recorded contact submission",
		slog.Uint64("id", uint64(submission.ID)),
		slog.String("subject", submission.Subject))

	return ctx.JSON(fiber.Map{"success": true, "id": submission.ID})
}

// CreateEventHandler records one generic analytics event.
func CreateEventHandler(ctx *cartridge.Context) error {
	var params CreateEventParams
	if err := ctx.Ctx.BodyParser(&params); err != nil {
		ctx.Logger.Debug("Failed to parse event request", slog.Any("error", err))
		return badRequest(ctx, errInvalidEvent)
	}

	if strings.TrimSpace(params.EventType) == "" {
		ctx.Logger.Debug("Rejected event without eventType")
		return badRequest(ctx, errInvalidEvent)
	}

	event := &analytics.AnalyticsEvent{
		EventType: params.EventType,
		EventData: serializeEventData(params.EventData),
		SessionID: params.SessionID,
	}

	store := analytics.NewStore(ctx.DBManager.GetConnection(), ctx.Logger)
	if err := store.CreateAnalyticsEvent(event); err != nil {
		ctx.Logger.Error("Failed to record analytics event", slog.Any("error", err))
		return badRequest(ctx, errInvalidEvent)
	}

	ctx.Logger.Debug("Recorded analytics event",
		slog.String("eventType", event.EventType),
		slog.Uint64("id", uint64(event.ID)))

	return ctx.JSON(fiber.Map{"success": true, "id": event.ID})
}

func badRequest(ctx *cartridge.Context, message string) error {
	return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// missingAny reports whether any of the required string fields is empty
// after trimming. There is deliberately no format validation beyond that;
// the email field only has to be present.
func missingAny(fields ...string) bool {
	for _, field := range fields {
		if strings.TrimSpace(field) == "" {
			return true
		}
	}
	return false
}

// optionalString maps "" to a null column value.
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// serializeEventData stores the opaque payload as JSON text.
func serializeEventData(data interface{}) string {
	if data == nil {
		return ""
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(serialized)
}
