package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"mentorhub/internal/config"
	"mentorhub/internal/domain"
	"mentorhub/internal/modules/payment"
	"mentorhub/internal/repository"
)

// Service owns the booking lifecycle. Status moves PENDING→CONFIRMED,
// PENDING→FAILED or PENDING→CANCELLED and never leaves a terminal state;
// both transitions happen through conditional writes at the datastore, so
// concurrent and retried calls cannot double-book or double-confirm.
type Service struct {
	bookings BookingRepository
	services ServiceReader
	payments PaymentCoordinator
	events   EventPublisher
	cfg      config.BookingConfig
	log      *zap.Logger
	now      func() time.Time
}

func NewService(bookings BookingRepository, services ServiceReader, payments PaymentCoordinator, events EventPublisher, cfg config.BookingConfig, log *zap.Logger) *Service {
	return &Service{
		bookings: bookings,
		services: services,
		payments: payments,
		events:   events,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
	}
}

// Create books the slot as PENDING with a by-value snapshot of the service,
// then opens a gateway order for it. Later edits to the service never touch
// this booking.
//
// Two concurrent calls for the same (mentor, slotStart) cannot both win:
// the datastore insert is atomic and the loser gets ErrSlotTaken.
func (s *Service) Create(ctx context.Context, userID int64, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if req.ServiceID == 0 || req.SlotStart.IsZero() {
		return nil, ErrValidation
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !svc.Active {
		return nil, ErrServiceInactive
	}

	slotStart := req.SlotStart
	if slotStart.Before(s.now().Add(s.cfg.LeadTime)) {
		return nil, ErrValidation
	}
	slotEnd := slotStart.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	// Without gateway credentials the booking could never be paid; fail
	// before the slot is taken.
	if !s.payments.Configured() {
		return nil, payment.ErrNotConfigured
	}

	// Narrower race window than generation time; the insert below is the
	// authoritative check.
	taken, err := s.bookings.HasOverlap(ctx, svc.MentorID, slotStart, slotEnd)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlotTaken
	}

	snapshot := svc.Snapshot()
	b := &domain.Booking{
		UserID:          userID,
		MentorID:        svc.MentorID,
		ServiceID:       snapshot.ServiceID,
		ServiceName:     snapshot.Name,
		Price:           snapshot.Price,
		DurationMinutes: snapshot.DurationMinutes,
		SlotStart:       slotStart,
		SlotEnd:         slotEnd,
		Status:          domain.BookingPending,
	}
	if err := s.bookings.InsertIfAbsent(ctx, b); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	order, err := s.payments.CreateOrder(ctx, b)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			// Credentials were lost between the check above and the call.
			// Release the slot rather than strand an unpayable booking.
			if _, cErr := s.bookings.ConditionalUpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingCancelled, nil); cErr != nil {
				s.log.Error("failed to release slot after gateway config error", zap.Int64("booking_id", b.ID), zap.Error(cErr))
			}
			return nil, err
		}
		// Transient gateway failure: the booking keeps the slot as PENDING;
		// the user cancels it to free the slot.
		return nil, err
	}

	b.OrderID = order.ID
	if _, err := s.bookings.ConditionalUpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingPending, map[string]interface{}{
		"order_id": order.ID,
	}); err != nil {
		s.log.Error("failed to persist order id on booking", zap.Int64("booking_id", b.ID), zap.Error(err))
	}

	if s.events != nil {
		s.events.PublishBookingCreated(b)
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("mentor_id", b.MentorID),
		zap.Time("slot_start", b.SlotStart))

	return &CreateBookingResponse{Booking: b, Order: order}, nil
}

// VerifyPayment delegates to the payment coordinator and publishes the
// confirmation event when this call performed the transition (idempotent
// replays publish nothing).
func (s *Service) VerifyPayment(ctx context.Context, req payment.VerifyRequest) (*payment.VerifyResult, error) {
	result, err := s.payments.Verify(ctx, req)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyVerified && s.events != nil {
		s.events.PublishBookingConfirmed(result.Booking)
	}
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return b, err
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *Service) ListForMentor(ctx context.Context, mentorID int64) ([]domain.Booking, error) {
	return s.bookings.ListByMentor(ctx, mentorID)
}

// PaymentHistory lists confirmed, paid bookings for either side of the
// marketplace depending on the caller's role.
func (s *Service) PaymentHistory(ctx context.Context, userID int64, role domain.Role) ([]domain.Booking, error) {
	if role == domain.RoleMentor {
		return s.bookings.PaymentHistory(ctx, "mentor_id", userID)
	}
	return s.bookings.PaymentHistory(ctx, "user_id", userID)
}

// Cancel moves a PENDING booking to CANCELLED. Terminal bookings are left
// untouched.
func (s *Service) Cancel(ctx context.Context, userID, bookingID int64) (*domain.Booking, error) {
	b, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotFound
	}

	ok, err := s.bookings.ConditionalUpdateStatus(ctx, bookingID, domain.BookingPending, domain.BookingCancelled, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyFinal
	}
	return s.GetByID(ctx, bookingID)
}
