package notify_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devfolio/internal/analytics"
	"devfolio/internal/notify"
	"devfolio/internal/testsupport"
)

type recordingNotifier struct {
	received chan *analytics.ContactSubmission
	err      error
}

func (n *recordingNotifier) ContactSubmitted(submission *analytics.ContactSubmission) error {
	n.received <- submission
	return n.err
}

type panickyNotifier struct {
	called chan struct{}
}

func (n *panickyNotifier) ContactSubmitted(submission *analytics.ContactSubmission) error {
	close(n.called)
	panic("delivery exploded")
}

func TestDispatch(t *testing.T) {
	logger := testsupport.GetLogger()

	submission := &analytics.ContactSubmission{
		ID:      42,
		Name:    "A",
		Email:   "a@example.com",
		Subject: "Hi",
		Message: "Hello",
	}

	t.Run("delivers a copy of the submission", func(t *testing.T) {
		notifier := &recordingNotifier{received: make(chan *analytics.ContactSubmission, 1)}

		notify.Dispatch(notifier, logger, submission)

		select {
		case got := <-notifier.received:
			assert.Equal(t, submission.ID, got.ID)
			assert.Equal(t, submission.Name, got.Name)
			assert.NotSame(t, submission, got, "dispatch must not share the caller's struct")
		case <-time.After(2 * time.Second):
			t.Fatal("notification was never delivered")
		}
	})

	t.Run("swallows delivery errors", func(t *testing.T) {
		notifier := &recordingNotifier{
			received: make(chan *analytics.ContactSubmission, 1),
			err:      errors.New("smtp unavailable"),
		}

		// Must not panic or block the caller
		notify.Dispatch(notifier, logger, submission)

		select {
		case <-notifier.received:
		case <-time.After(2 * time.Second):
			t.Fatal("notification was never attempted")
		}
	})

	t.Run("recovers from a panicking provider", func(t *testing.T) {
		notifier := &panickyNotifier{called: make(chan struct{})}

		notify.Dispatch(notifier, logger, submission)

		select {
		case <-notifier.called:
		case <-time.After(2 * time.Second):
			t.Fatal("notification was never attempted")
		}
		// Give the goroutine a moment to hit the recover path
		time.Sleep(50 * time.Millisecond)
	})
}

func TestLogNotifier(t *testing.T) {
	logger := testsupport.GetLogger()
	notifier := notify.NewLogNotifier(logger)

	err := notifier.ContactSubmitted(&analytics.ContactSubmission{ID: 1, Name: "A"})
	require.NoError(t, err)
}
