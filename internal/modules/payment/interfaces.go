package payment

import (
	"context"

	"mentorhub/internal/domain"
)

// Gateway is the seam over the Razorpay SDK so tests can stand in for it.
type Gateway interface {
	CreateOrder(data map[string]interface{}) (map[string]interface{}, error)
	FetchPayment(paymentID string) (map[string]interface{}, error)
}

type bookingStore interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ConditionalUpdateStatus(ctx context.Context, bookingID int64, expected, next domain.BookingStatus, fields map[string]interface{}) (bool, error)
}

// confirmer runs the post-verification pipeline exactly once per booking.
type confirmer interface {
	Run(ctx context.Context, b *domain.Booking, paymentID, orderID string) (*domain.Booking, bool, error)
}
