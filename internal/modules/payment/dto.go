package payment

import "mentorhub/internal/domain"

// Order is the gateway order handle returned alongside a new booking. Amount
// is in the smallest currency unit.
type Order struct {
	ID       string `json:"id" example:"order_NXhT2tYrp4"`
	Amount   int64  `json:"amount" example:"150000"`
	Currency string `json:"currency" example:"INR"`
	Receipt  string `json:"receipt" example:"receipt_order_42"`
}

type VerifyRequest struct {
	BookingID int64  `json:"bookingId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	OrderID   string `json:"orderId" binding:"required"`
	Signature string `json:"signature"`
}

type VerifyResult struct {
	Booking          *domain.Booking `json:"booking"`
	NotificationSent bool            `json:"notification_sent"`
	AlreadyVerified  bool            `json:"already_verified"`
}
