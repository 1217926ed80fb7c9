package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingFailed    BookingStatus = "failed"
	BookingCancelled BookingStatus = "cancelled"
)

// Terminal reports whether a status permits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingFailed || s == BookingCancelled
}

type Booking struct {
	ID       int64 `json:"id" gorm:"primaryKey"`
	UserID   int64 `json:"user_id" gorm:"index"`
	MentorID int64 `json:"mentor_id" gorm:"index"`

	// Service snapshot, flattened into booking columns.
	ServiceID       int64   `json:"service_id"`
	ServiceName     string  `json:"service_name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`

	SlotStart   time.Time     `json:"slot_start"`
	SlotEnd     time.Time     `json:"slot_end"`
	Status      BookingStatus `json:"status" gorm:"size:16"`
	PaymentID   string        `json:"payment_id,omitempty" gorm:"size:64"`
	OrderID     string        `json:"order_id,omitempty" gorm:"size:64"`
	MeetingLink string        `json:"meeting_link,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User   *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Mentor *User `json:"mentor,omitempty" gorm:"foreignKey:MentorID"`
}

func (b *Booking) Snapshot() ServiceSnapshot {
	return ServiceSnapshot{
		ServiceID:       b.ServiceID,
		Name:            b.ServiceName,
		Price:           b.Price,
		DurationMinutes: b.DurationMinutes,
	}
}
