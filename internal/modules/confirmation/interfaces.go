package confirmation

import (
	"context"
	"time"

	"mentorhub/internal/domain"
	"mentorhub/internal/pkg/mailer"
)

// MeetingProvider schedules a meeting and returns its join URL. The call is
// bounded by the provider's own timeout.
type MeetingProvider interface {
	CreateMeeting(ctx context.Context, startTime time.Time, durationMinutes int) (string, error)
}

// Notifier delivers the confirmation message. It reports success as a bool
// and never raises; delivery failure is informational only.
type Notifier interface {
	SendConfirmation(ctx context.Context, to string, data mailer.ConfirmationData) bool
}

// BookingStore is the slice of the datastore the pipeline touches.
type BookingStore interface {
	ConditionalUpdateStatus(ctx context.Context, bookingID int64, expected, next domain.BookingStatus, fields map[string]interface{}) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}
