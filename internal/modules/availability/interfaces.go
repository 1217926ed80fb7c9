package availability

import (
	"context"
	"time"

	"mentorhub/internal/domain"
	"mentorhub/internal/repository"
)

// AvailabilityStore is the data access this module needs for templates and
// exception dates.
type AvailabilityStore interface {
	GetTemplate(ctx context.Context, mentorID int64) (domain.WeeklyTemplate, error)
	ReplaceTemplate(ctx context.Context, mentorID int64, tmpl domain.WeeklyTemplate) error
	GetExceptions(ctx context.Context, mentorID int64) ([]domain.ExceptionDate, error)
	AddException(ctx context.Context, e *domain.ExceptionDate) error
	RemoveException(ctx context.Context, mentorID, exceptionID int64) error
}

// BusyIntervalReader exposes the intervals held by non-terminal bookings.
type BusyIntervalReader interface {
	GetBusyIntervals(ctx context.Context, mentorID int64, from, to time.Time) ([]repository.BusyInterval, error)
}

// MentorReader verifies the mentor exists before generating for them.
type MentorReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
