package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentorhub/internal/config"
	"mentorhub/internal/domain"
	"mentorhub/internal/repository"
)

const defaultDurationMinutes = 30

type Service struct {
	store    AvailabilityStore
	bookings BusyIntervalReader
	mentors  MentorReader
	cfg      config.BookingConfig
	now      func() time.Time
}

func NewService(store AvailabilityStore, bookings BusyIntervalReader, mentors MentorReader, cfg config.BookingConfig) *Service {
	return &Service{
		store:    store,
		bookings: bookings,
		mentors:  mentors,
		cfg:      cfg,
		now:      time.Now,
	}
}

// GetMentorAvailability generates the bookable slots for the mentor over the
// configured horizon. The horizon is recomputed on every call; nothing is
// cached.
func (s *Service) GetMentorAvailability(ctx context.Context, mentorID int64, durationMinutes int) (*AvailabilityResponse, error) {
	if durationMinutes == 0 {
		durationMinutes = defaultDurationMinutes
	}
	if durationMinutes < 0 {
		return nil, ErrValidation
	}

	if _, err := s.mentors.GetByID(ctx, mentorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	tmpl, err := s.store.GetTemplate(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	exceptions, err := s.store.GetExceptions(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	horizonEnd := now.AddDate(0, 0, s.cfg.HorizonDays+1)
	busy, err := s.bookings.GetBusyIntervals(ctx, mentorID, now.AddDate(0, 0, -1), horizonEnd)
	if err != nil {
		return nil, err
	}

	days := Generate(tmpl, exceptions, busy, durationMinutes, GenerateOptions{
		Now:         now,
		HorizonDays: s.cfg.HorizonDays,
		LeadTime:    s.cfg.LeadTime,
		Location:    s.cfg.Timezone,
	})

	return &AvailabilityResponse{MentorID: mentorID, Days: days}, nil
}

// GetTemplate returns the mentor's stored weekly template.
func (s *Service) GetTemplate(ctx context.Context, mentorID int64) (domain.WeeklyTemplate, error) {
	return s.store.GetTemplate(ctx, mentorID)
}

// SaveTemplate validates and replaces the mentor's weekly template. Create
// and update are the same operation: the submitted template wins.
func (s *Service) SaveTemplate(ctx context.Context, mentorID int64, req TemplateRequest) (domain.WeeklyTemplate, error) {
	tmpl := domain.WeeklyTemplate{
		time.Monday:    req.Monday,
		time.Tuesday:   req.Tuesday,
		time.Wednesday: req.Wednesday,
		time.Thursday:  req.Thursday,
		time.Friday:    req.Friday,
		time.Saturday:  req.Saturday,
		time.Sunday:    req.Sunday,
	}

	for weekday, ranges := range tmpl {
		for _, r := range ranges {
			if _, _, err := r.Minutes(); err != nil {
				return nil, fmt.Errorf("%w: %s %v", ErrValidation, weekday, err)
			}
		}
		if len(ranges) == 0 {
			delete(tmpl, weekday)
		}
	}

	if err := s.store.ReplaceTemplate(ctx, mentorID, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// AddException blocks a date, fully or partially, for the mentor.
func (s *Service) AddException(ctx context.Context, mentorID int64, req ExceptionRequest) (*domain.ExceptionDate, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, fmt.Errorf("%w: invalid date %q", ErrValidation, req.Date)
	}
	if (req.StartTime == "") != (req.EndTime == "") {
		return nil, fmt.Errorf("%w: partial exception needs both start_time and end_time", ErrValidation)
	}
	if req.StartTime != "" {
		r := domain.TimeRange{Start: req.StartTime, End: req.EndTime}
		if _, _, err := r.Minutes(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	e := &domain.ExceptionDate{
		MentorID:  mentorID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if err := s.store.AddException(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) ListExceptions(ctx context.Context, mentorID int64) ([]domain.ExceptionDate, error) {
	return s.store.GetExceptions(ctx, mentorID)
}

func (s *Service) RemoveException(ctx context.Context, mentorID, exceptionID int64) error {
	err := s.store.RemoveException(ctx, mentorID, exceptionID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
