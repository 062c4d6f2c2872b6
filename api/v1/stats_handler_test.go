package v1_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"devfolio/internal/analytics"
	"devfolio/internal/testsupport"
)

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, 30000)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &parsed))
	return resp.StatusCode, parsed
}

func seedPageView(t *testing.T, db *gorm.DB, page, sessionID, browser, device string, country *string) {
	t.Helper()

	view := &analytics.PageView{
		Page:      page,
		SessionID: sessionID,
		UserAgent: "Mozilla/5.0 Test Browser",
		IPAddress: "203.0.113.10",
		Browser:   browser,
		Device:    device,
		Country:   country,
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, db.Create(view).Error)
}

func TestGetPageViewStatsHandler(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	testsupport.CleanAllTables(db)

	app := testsupport.CreateMinimalTestApp(t, db)

	seedPageView(t, db, "/", "s1", analytics.BrowserChrome, analytics.DeviceDesktop, nil)
	seedPageView(t, db, "/about", "s1", analytics.BrowserChrome, analytics.DeviceDesktop, nil)
	// A view recorded without a session identity
	seedPageView(t, db, "/about", "", analytics.BrowserChrome, analytics.DeviceDesktop, nil)

	status, body := getJSON(t, app, "/api/analytics/pageviews")
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, float64(3), body["totalViews"])
	assert.Equal(t, float64(1), body["uniqueVisitors"], "one session plus a sessionless view is one visitor")

	topPages, ok := body["topPages"].([]interface{})
	require.True(t, ok)
	require.Len(t, topPages, 2)
	for _, entry := range topPages {
		page := entry.(map[string]interface{})
		assert.Contains(t, []string{"/", "/about"}, page["page"])
	}

	recentViews, ok := body["recentViews"].([]interface{})
	require.True(t, ok)
	assert.Len(t, recentViews, 3)
}

func TestGetTrafficStatsHandler(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	testsupport.CleanAllTables(db)

	app := testsupport.CreateMinimalTestApp(t, db)

	us := "US"
	seedPageView(t, db, "/", "s1", analytics.BrowserChrome, analytics.DeviceDesktop, &us)
	seedPageView(t, db, "/", "s2", analytics.BrowserSafari, analytics.DeviceMobile, nil)

	status, body := getJSON(t, app, "/api/analytics/traffic")
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, float64(2), body["totalViews"])

	topCountries, ok := body["topCountries"].([]interface{})
	require.True(t, ok)
	require.Len(t, topCountries, 1)
	country := topCountries[0].(map[string]interface{})
	assert.Equal(t, "United States", country["country"], "ISO code resolves to a display name")
	assert.Equal(t, float64(1), country["views"])

	topBrowsers, ok := body["topBrowsers"].([]interface{})
	require.True(t, ok)
	require.Len(t, topBrowsers, 2)
	browser := topBrowsers[0].(map[string]interface{})
	assert.Contains(t, browser, "browser")
	assert.Contains(t, browser, "views")

	topDevices, ok := body["topDevices"].([]interface{})
	require.True(t, ok)
	require.Len(t, topDevices, 2)
	device := topDevices[0].(map[string]interface{})
	assert.Contains(t, device, "device")

	dailyViews, ok := body["dailyViews"].([]interface{})
	require.True(t, ok)
	require.Len(t, dailyViews, 1)
	day := dailyViews[0].(map[string]interface{})
	assert.Equal(t, float64(2), day["views"])
}

func TestGetContactStatsHandler(t *testing.T) {
	dbManager, _ := testsupport.SetupTestDBManager(t)
	db := dbManager.GetConnection()
	testsupport.CleanAllTables(db)

	app := testsupport.CreateMinimalTestApp(t, db)

	resp := postJSON(t, app, "/api/analytics/contact", map[string]interface{}{
		"name":    "A",
		"email":   "a@example.com",
		"subject": "Hi",
		"message": "Hello there",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status, body := getJSON(t, app, "/api/analytics/contacts")
	assert.Equal(t, http.StatusOK, status)

	assert.Equal(t, float64(1), body["totalSubmissions"])

	recent, ok := body["recentSubmissions"].([]interface{})
	require.True(t, ok)
	require.Len(t, recent, 1)
	submission := recent[0].(map[string]interface{})
	assert.Equal(t, "A", submission["name"])

	daily, ok := body["dailySubmissions"].([]interface{})
	require.True(t, ok)
	require.Len(t, daily, 1)
	day := daily[0].(map[string]interface{})
	assert.Equal(t, float64(1), day["submissions"])
}

func TestGetOverviewHandler(t *testing.T) {
	t.Run("combines all three stat groups", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		// Two views from the same session on different pages
		resp := postJSON(t, app, "/api/analytics/pageview", map[string]interface{}{
			"page": "/", "sessionId": "s1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp = postJSON(t, app, "/api/analytics/pageview", map[string]interface{}{
			"page": "/about", "sessionId": "s1",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		status, body := getJSON(t, app, "/api/analytics/overview")
		assert.Equal(t, http.StatusOK, status)

		pageViews, ok := body["pageViews"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(2), pageViews["totalViews"])
		assert.Equal(t, float64(1), pageViews["uniqueVisitors"])

		topPages, ok := pageViews["topPages"].([]interface{})
		require.True(t, ok)
		require.Len(t, topPages, 2)
		for _, entry := range topPages {
			assert.Equal(t, float64(1), entry.(map[string]interface{})["views"])
		}

		traffic, ok := body["traffic"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(2), traffic["totalViews"])

		contacts, ok := body["contacts"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(0), contacts["totalSubmissions"])
	})

	t.Run("returns empty groups for an empty database", func(t *testing.T) {
		dbManager, _ := testsupport.SetupTestDBManager(t)
		db := dbManager.GetConnection()
		testsupport.CleanAllTables(db)

		app := testsupport.CreateMinimalTestApp(t, db)

		status, body := getJSON(t, app, "/api/analytics/overview")
		assert.Equal(t, http.StatusOK, status)

		pageViews := body["pageViews"].(map[string]interface{})
		assert.Equal(t, float64(0), pageViews["totalViews"])

		traffic := body["traffic"].(map[string]interface{})
		assert.Equal(t, float64(0), traffic["totalViews"])

		contacts := body["contacts"].(map[string]interface{})
		assert.Equal(t, float64(0), contacts["totalSubmissions"])
	})
}
