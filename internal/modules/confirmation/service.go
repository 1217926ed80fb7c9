package confirmation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"mentorhub/internal/domain"
	"mentorhub/internal/pkg/mailer"
)

// ErrAlreadyDecided means the conditional PENDING→CONFIRMED update found the
// booking in some other state: a concurrent verify won, or the booking had
// already failed. The caller decides what that means.
var ErrAlreadyDecided = errors.New("booking already left pending state")

// Pipeline finalises a verified booking: schedule a meeting (best effort),
// persist the link together with the CONFIRMED status in one conditional
// write, then notify the user (best effort). Payment capture is never undone
// by anything that happens here.
type Pipeline struct {
	meetings MeetingProvider
	notifier Notifier
	bookings BookingStore
	timezone *time.Location
	log      *zap.Logger
}

func NewPipeline(meetings MeetingProvider, notifier Notifier, bookings BookingStore, timezone *time.Location, log *zap.Logger) *Pipeline {
	return &Pipeline{
		meetings: meetings,
		notifier: notifier,
		bookings: bookings,
		timezone: timezone,
		log:      log,
	}
}

// Run executes the pipeline for a booking whose payment just verified.
// It returns the confirmed booking and whether the notification went out.
func (p *Pipeline) Run(ctx context.Context, b *domain.Booking, paymentID, orderID string) (*domain.Booking, bool, error) {
	link := ""
	if p.meetings != nil {
		var err error
		link, err = p.meetings.CreateMeeting(ctx, b.SlotStart, b.DurationMinutes)
		if err != nil {
			// Recoverable operational issue: the booking confirms anyway and
			// the link can be attached later by support tooling.
			p.log.Warn("meeting creation failed, confirming without link",
				zap.Int64("booking_id", b.ID), zap.Error(err))
			link = ""
		}
	}

	ok, err := p.bookings.ConditionalUpdateStatus(ctx, b.ID, domain.BookingPending, domain.BookingConfirmed, map[string]interface{}{
		"meeting_link": link,
		"payment_id":   paymentID,
		"order_id":     orderID,
	})
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, ErrAlreadyDecided
	}

	confirmed, err := p.bookings.GetByID(ctx, b.ID)
	if err != nil {
		return nil, false, err
	}

	sent := p.notify(ctx, confirmed)
	return confirmed, sent, nil
}

func (p *Pipeline) notify(ctx context.Context, b *domain.Booking) bool {
	if p.notifier == nil || b.User == nil || b.User.Email == "" {
		return false
	}

	date, clock := mailer.FormatWhen(b.SlotStart, p.timezone)
	return p.notifier.SendConfirmation(ctx, b.User.Email, mailer.ConfirmationData{
		Name:        b.User.Name,
		MeetingLink: b.MeetingLink,
		Date:        date,
		Time:        clock,
	})
}
