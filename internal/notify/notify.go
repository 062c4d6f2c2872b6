// Package notify delivers contact-form notifications to the site owner.
// Delivery is best-effort: it runs after the submission row is already
// persisted and a failed notification only ever shows up in the logs.
package notify

import (
	"log/slog"

	"devfolio/internal/analytics"
)

// Notifier is the outbound delivery collaborator. The production provider
// (transactional email) lives outside this repository; LogNotifier stands
// in when none is configured.
type Notifier interface {
	ContactSubmitted(submission *analytics.ContactSubmission) error
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier that only logs.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

var _ Notifier = (*LogNotifier)(nil)

// ContactSubmitted logs the submission summary.
func (n *LogNotifier) ContactSubmitted(submission *analytics.ContactSubmission) error {
	n.logger.Info("Contact submission received",
		slog.Uint64("id", uint64(submission.ID)),
		slog.String("name", submission.Name),
		slog.String("email", submission.Email),
		slog.String("subject", submission.Subject))
	return nil
}

// Dispatch sends the notification on its own goroutine so the request that
// persisted the submission never waits on delivery. Errors are logged and
// swallowed.
func Dispatch(notifier Notifier, logger *slog.Logger, submission *analytics.ContactSubmission) {
	sub := *submission
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered in contact notification", slog.Any("panic", r))
			}
		}()
		if err := notifier.ContactSubmitted(&sub); err != nil {
			logger.Warn("Failed to deliver contact notification",
				slog.Uint64("id", uint64(sub.ID)),
				slog.Any("error", err))
		}
	}()
}
