package domain

import "time"

// Service is a bookable offering owned by a mentor. Price and duration are
// copied into the booking at creation time, so editing a service never
// changes bookings that already exist.
type Service struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	MentorID        int64     `json:"mentor_id" gorm:"index"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty" gorm:"type:text"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ServiceSnapshot is the by-value copy of a service stored on a booking.
type ServiceSnapshot struct {
	ServiceID       int64   `json:"service_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
}

func (s *Service) Snapshot() ServiceSnapshot {
	return ServiceSnapshot{
		ServiceID:       s.ID,
		Name:            s.Name,
		Price:           s.Price,
		DurationMinutes: s.DurationMinutes,
	}
}
