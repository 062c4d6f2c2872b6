package analytics

import "strings"

// Browser labels derived from the User-Agent header.
const (
	BrowserChrome  = "Chrome"
	BrowserSafari  = "Safari"
	BrowserFirefox = "Firefox"
	BrowserEdge    = "Edge"
	BrowserOther   = "Other"
)

// Device labels derived from the User-Agent header.
const (
	DeviceMobile  = "Mobile"
	DeviceTablet  = "Tablet"
	DeviceDesktop = "Desktop"
)

// browserPriority is ordered: the first matching substring wins. Chrome
// user agents also contain "Safari", so Chrome must be tested first.
var browserPriority = []string{
	BrowserChrome,
	BrowserSafari,
	BrowserFirefox,
	BrowserEdge,
}

var mobileMarkers = []string{"Mobile", "Android", "iPhone", "iPad"}

var tabletMarkers = []string{"Tablet", "iPad"}

// BrowserFromUserAgent classifies a user agent into one of the known
// browser labels using case-sensitive substring matching.
func BrowserFromUserAgent(userAgent string) string {
	for _, browser := range browserPriority {
		if strings.Contains(userAgent, browser) {
			return browser
		}
	}
	return BrowserOther
}

// DeviceFromUserAgent classifies a user agent as Mobile, Tablet or Desktop.
// The mobile markers are checked first and include "iPad", so iPads report
// as Mobile and the tablet branch only fires for agents carrying "Tablet"
// without any mobile marker. Callers depending on the historical counts
// rely on this ordering staying put.
func DeviceFromUserAgent(userAgent string) string {
	for _, marker := range mobileMarkers {
		if strings.Contains(userAgent, marker) {
			return DeviceMobile
		}
	}
	for _, marker := range tabletMarkers {
		if strings.Contains(userAgent, marker) {
			return DeviceTablet
		}
	}
	return DeviceDesktop
}
