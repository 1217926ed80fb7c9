package booking

import (
	"context"
	"time"

	"mentorhub/internal/domain"
	"mentorhub/internal/modules/payment"
)

// BookingRepository is the datastore contract the state machine relies on.
// InsertIfAbsent and ConditionalUpdateStatus are the two atomic primitives
// that make the lifecycle safe without in-process locks.
type BookingRepository interface {
	InsertIfAbsent(ctx context.Context, b *domain.Booking) error
	HasOverlap(ctx context.Context, mentorID int64, start, end time.Time) (bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	ListByMentor(ctx context.Context, mentorID int64) ([]domain.Booking, error)
	PaymentHistory(ctx context.Context, column string, id int64) ([]domain.Booking, error)
	ConditionalUpdateStatus(ctx context.Context, bookingID int64, expected, next domain.BookingStatus, fields map[string]interface{}) (bool, error)
}

type ServiceReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// PaymentCoordinator is the payment module seam used by this service.
type PaymentCoordinator interface {
	Configured() bool
	CreateOrder(ctx context.Context, b *domain.Booking) (*payment.Order, error)
	Verify(ctx context.Context, req payment.VerifyRequest) (*payment.VerifyResult, error)
}

// EventPublisher pushes live booking events to connected dashboards.
// Publishing is fire-and-forget; a missed event never fails a booking.
type EventPublisher interface {
	PublishBookingCreated(b *domain.Booking)
	PublishBookingConfirmed(b *domain.Booking)
}
