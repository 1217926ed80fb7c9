package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mentorhub/internal/domain"
)

type AvailabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// GetTemplate loads the mentor's weekly template keyed by weekday. The
// returned map is empty (not nil) for mentors without a template.
func (r *AvailabilityRepository) GetTemplate(ctx context.Context, mentorID int64) (domain.WeeklyTemplate, error) {
	var rules []domain.AvailabilityRule
	err := r.db.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("weekday ASC, start_time ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("get availability template: %w", err)
	}

	tmpl := make(domain.WeeklyTemplate)
	for _, rule := range rules {
		tmpl[rule.Weekday] = append(tmpl[rule.Weekday], domain.TimeRange{
			Start: rule.StartTime,
			End:   rule.EndTime,
		})
	}
	return tmpl, nil
}

// ReplaceTemplate swaps the mentor's whole template in one transaction.
// There is no row-level patching: the template the mentor submits is the
// template that exists afterwards.
func (r *AvailabilityRepository) ReplaceTemplate(ctx context.Context, mentorID int64, tmpl domain.WeeklyTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("mentor_id = ?", mentorID).Delete(&domain.AvailabilityRule{}).Error; err != nil {
			return fmt.Errorf("clear availability template: %w", err)
		}

		var rules []domain.AvailabilityRule
		for weekday, ranges := range tmpl {
			for _, rng := range ranges {
				rules = append(rules, domain.AvailabilityRule{
					MentorID:  mentorID,
					Weekday:   weekday,
					StartTime: rng.Start,
					EndTime:   rng.End,
				})
			}
		}
		if len(rules) == 0 {
			return nil
		}
		if err := tx.Create(&rules).Error; err != nil {
			return fmt.Errorf("insert availability template: %w", err)
		}
		return nil
	})
}

func (r *AvailabilityRepository) GetExceptions(ctx context.Context, mentorID int64) ([]domain.ExceptionDate, error) {
	var exceptions []domain.ExceptionDate
	err := r.db.WithContext(ctx).
		Where("mentor_id = ?", mentorID).
		Order("date ASC").
		Find(&exceptions).Error
	if err != nil {
		return nil, fmt.Errorf("get exception dates: %w", err)
	}
	return exceptions, nil
}

func (r *AvailabilityRepository) AddException(ctx context.Context, e *domain.ExceptionDate) error {
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("add exception date: %w", err)
	}
	return nil
}

func (r *AvailabilityRepository) RemoveException(ctx context.Context, mentorID, exceptionID int64) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND mentor_id = ?", exceptionID, mentorID).
		Delete(&domain.ExceptionDate{})
	if tx.Error != nil {
		return fmt.Errorf("remove exception date: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
