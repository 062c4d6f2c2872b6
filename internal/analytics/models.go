package analytics

import "time"

// PageView is a single tracked route change. Rows are append-only: the
// ingestion path inserts them and the stats queries read them, nothing
// updates or deletes them.
type PageView struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Page      string    `gorm:"size:255;index;not null" json:"page"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `gorm:"size:45" json:"ipAddress"`
	Referrer  *string   `json:"referrer"`
	Country   *string   `gorm:"size:100;index" json:"country"`
	City      *string   `gorm:"size:100" json:"city"`
	Device    string    `gorm:"size:50" json:"device"`
	Browser   string    `gorm:"size:50" json:"browser"`
	SessionID string    `gorm:"size:255;index" json:"sessionId"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// ContactSubmission is one successful contact-form submission. Append-only.
type ContactSubmission struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Subject   string    `gorm:"not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IPAddress string    `gorm:"size:45" json:"ipAddress"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}

// AnalyticsEvent is an ad-hoc interaction event (navigation clicks, resume
// downloads). EventData carries the caller's payload serialized as JSON;
// the aggregation layer never looks inside it.
type AnalyticsEvent struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventType string    `gorm:"size:100;index;not null" json:"eventType"`
	EventData string    `gorm:"type:text" json:"eventData"`
	SessionID string    `gorm:"size:255;index" json:"sessionId"`
	Timestamp time.Time `gorm:"index;not null" json:"timestamp"`
}
