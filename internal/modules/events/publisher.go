package events

import (
	"time"

	"go.uber.org/zap"

	"mentorhub/internal/domain"
)

// Publisher fans booking lifecycle events out to connected users and
// mentors through the hub. All publishes are fire and forget.
type Publisher struct {
	hub *Hub
	log *zap.Logger
}

func NewPublisher(hub *Hub, log *zap.Logger) *Publisher {
	return &Publisher{hub: hub, log: log}
}

func (p *Publisher) PublishBookingCreated(b *domain.Booking) {
	p.send(b.MentorID, Event{
		Type:      EventBookingCreated,
		Payload:   bookingPayload(b),
		Timestamp: time.Now(),
	})
}

func (p *Publisher) PublishBookingConfirmed(b *domain.Booking) {
	event := Event{
		Type:      EventBookingConfirmed,
		Payload:   bookingPayload(b),
		Timestamp: time.Now(),
	}
	p.send(b.UserID, event)
	p.send(b.MentorID, event)
}

func (p *Publisher) send(userID int64, event Event) {
	if delivered := p.hub.SendToUser(userID, event); !delivered {
		p.log.Debug("event not delivered, user offline",
			zap.Int64("user_id", userID),
			zap.String("type", event.Type))
	}
}

func bookingPayload(b *domain.Booking) map[string]interface{} {
	return map[string]interface{}{
		"booking_id":   b.ID,
		"service_name": b.ServiceName,
		"slot_start":   b.SlotStart,
		"slot_end":     b.SlotEnd,
		"status":       b.Status,
		"meeting_link": b.MeetingLink,
	}
}
