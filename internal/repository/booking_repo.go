package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mentorhub/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// BusyInterval is the [Start, End) range occupied by a non-terminal booking.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

var nonTerminalStatuses = []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed}

func (r *BookingRepository) GetBusyIntervals(ctx context.Context, mentorID int64, from, to time.Time) ([]BusyInterval, error) {
	var rows []struct {
		SlotStart time.Time
		SlotEnd   time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select("slot_start", "slot_end").
		Where("mentor_id = ? AND status IN ? AND slot_start < ? AND slot_end > ?",
			mentorID, nonTerminalStatuses, to, from).
		Order("slot_start ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get busy intervals: %w", err)
	}

	out := make([]BusyInterval, 0, len(rows))
	for _, row := range rows {
		out = append(out, BusyInterval{Start: row.SlotStart, End: row.SlotEnd})
	}
	return out, nil
}

// HasOverlap reports whether any non-terminal booking for the mentor
// intersects [start, end).
func (r *BookingRepository) HasOverlap(ctx context.Context, mentorID int64, start, end time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("mentor_id = ? AND status IN ? AND slot_start < ? AND slot_end > ?",
			mentorID, nonTerminalStatuses, end, start).
		Count(&cnt).Error
	if err != nil {
		return false, fmt.Errorf("check booking overlap: %w", err)
	}
	return cnt > 0, nil
}

// InsertIfAbsent creates the booking unless a non-terminal booking already
// occupies an overlapping interval for the same mentor. The transaction
// narrows the check-then-insert race; the partial unique index on
// (mentor_id, slot_start) closes it for identical slot starts, which is the
// only way two generated slots can collide.
func (r *BookingRepository) InsertIfAbsent(ctx context.Context, b *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		err := tx.Model(&domain.Booking{}).
			Where("mentor_id = ? AND status IN ? AND slot_start < ? AND slot_end > ?",
				b.MentorID, nonTerminalStatuses, b.SlotEnd, b.SlotStart).
			Count(&cnt).Error
		if err != nil {
			return fmt.Errorf("check booking overlap: %w", err)
		}
		if cnt > 0 {
			return ErrDuplicate
		}
		return tx.Create(b).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) || isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ConditionalUpdateStatus transitions the booking only if its current status
// equals expected, applying extra fields in the same statement. It returns
// false when the guard fails, which callers treat as "somebody else already
// moved this booking".
func (r *BookingRepository) ConditionalUpdateStatus(ctx context.Context, bookingID int64, expected, next domain.BookingStatus, fields map[string]interface{}) (bool, error) {
	updates := map[string]interface{}{"status": next, "updated_at": time.Now().UTC()}
	for k, v := range fields {
		updates[k] = v
	}

	tx := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", bookingID, expected).
		Updates(updates)
	if tx.Error != nil {
		return false, fmt.Errorf("conditional status update: %w", tx.Error)
	}
	return tx.RowsAffected > 0, nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Mentor").
		First(&b, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Mentor").
		Where("user_id = ?", userID).
		Order("slot_start DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings by user: %w", err)
	}
	return bookings, nil
}

func (r *BookingRepository) ListByMentor(ctx context.Context, mentorID int64) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("mentor_id = ?", mentorID).
		Order("slot_start DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings by mentor: %w", err)
	}
	return bookings, nil
}

// PaymentHistory returns confirmed, paid bookings newest first, scoped to
// the student or the mentor side depending on the column.
func (r *BookingRepository) PaymentHistory(ctx context.Context, column string, id int64) ([]domain.Booking, error) {
	if column != "user_id" && column != "mentor_id" {
		return nil, fmt.Errorf("payment history: unsupported scope column %q", column)
	}

	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Mentor").
		Where(column+" = ? AND status = ? AND payment_id <> ''", id, domain.BookingConfirmed).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}
	return bookings, nil
}
