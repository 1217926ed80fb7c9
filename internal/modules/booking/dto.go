package booking

import (
	"time"

	"mentorhub/internal/domain"
	"mentorhub/internal/modules/payment"
)

type CreateBookingRequest struct {
	ServiceID int64     `json:"serviceId" binding:"required"`
	SlotStart time.Time `json:"dateAndTime" binding:"required"`
}

type CreateBookingResponse struct {
	Booking *domain.Booking `json:"booking"`
	Order   *payment.Order  `json:"order"`
}
