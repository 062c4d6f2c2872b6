// Package v1_test contains tests for the API v1 handlers
package v1_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devfolio/internal/analytics"
	"devfolio/internal/testsupport"
)

func postJSON(t *testing.T, app *fiber.App, path string, payload map[string]interface{}) *http.Response {
	t.Helper()

	jsonPayload, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(jsonPayload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0 Safari/537.36")
	req.Header.Set("X-Forwarded-For", "203.0.113.10")

	resp, err := app.Test(req, 30000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &parsed))
	return parsed
}

func TestCreatePageViewHandler(t *testing.T) {
	t.Run("accepts a valid page view", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/pageview", map[string]interface{}{
			"page":      "/projects",
			"sessionId": "session_123_abc",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.NotZero(t, body["id"])

		var view analytics.PageView
		require.NoError(t, db.First(&view).Error)
		assert.Equal(t, "/projects", view.Page)
		assert.Equal(t, "session_123_abc", view.SessionID)
		assert.Equal(t, analytics.BrowserChrome, view.Browser, "derived from User-Agent header")
		assert.Equal(t, analytics.DeviceDesktop, view.Device)
		assert.NotEmpty(t, view.IPAddress)
		assert.False(t, view.Timestamp.IsZero())
	})

	t.Run("accepts a page view without sessionId", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/pageview", map[string]interface{}{
			"page": "/",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("rejects a page view without page", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/pageview", map[string]interface{}{
			"sessionId": "session_123_abc",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid page view data", body["error"])

		var count int64
		require.NoError(t, db.Model(&analytics.PageView{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		req := httptest.NewRequest("POST", "/api/analytics/pageview", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, 30000)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestCreateContactHandler(t *testing.T) {
	t.Run("accepts a complete submission", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/contact", map[string]interface{}{
			"name":    "A",
			"email":   "a@example.com",
			"subject": "Hi",
			"message": "Interested in working together",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
		assert.IsType(t, float64(0), body["id"])

		var submission analytics.ContactSubmission
		require.NoError(t, db.First(&submission).Error)
		assert.Equal(t, "A", submission.Name)
		assert.Equal(t, "a@example.com", submission.Email)
	})

	t.Run("rejects a submission with a missing field", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/contact", map[string]interface{}{
			"name":    "A",
			"subject": "Hi",
			"message": "No email supplied",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid contact data", body["error"])

		var count int64
		require.NoError(t, db.Model(&analytics.ContactSubmission{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})

	t.Run("accepts any non-empty email string", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		// Presence is checked, format is not
		resp := postJSON(t, app, "/api/analytics/contact", map[string]interface{}{
			"name":    "B",
			"email":   "not-an-email",
			"subject": "Hi",
			"message": "Hello",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestCreateEventHandler(t *testing.T) {
	t.Run("accepts an event with structured data", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/event", map[string]interface{}{
			"eventType": "resume_download",
			"eventData": map[string]interface{}{"format": "pdf"},
			"sessionId": "session_123_abc",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])

		var event analytics.AnalyticsEvent
		require.NoError(t, db.First(&event).Error)
		assert.Equal(t, "resume_download", event.EventType)
		assert.JSONEq(t, `{"format":"pdf"}`, event.EventData)
	})

	t.Run("accepts an event without data", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/event", map[string]interface{}{
			"eventType": "theme_toggle",
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var event analytics.AnalyticsEvent
		require.NoError(t, db.First(&event).Error)
		assert.Equal(t, "", event.EventData)
	})

	t.Run("rejects an event without eventType", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		resp := postJSON(t, app, "/api/analytics/event", map[string]interface{}{
			"eventData": map[string]interface{}{"format": "pdf"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Invalid event data", body["error"])

		var count int64
		require.NoError(t, db.Model(&analytics.AnalyticsEvent{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}
