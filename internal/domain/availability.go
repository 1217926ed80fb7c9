package domain

import (
	"fmt"
	"time"
)

// TimeRange is a half-open [Start, End) range on a day-local clock,
// formatted as "15:04".
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Minutes parses the range into minutes since midnight.
func (r TimeRange) Minutes() (start, end int, err error) {
	start, err = clockMinutes(r.Start)
	if err != nil {
		return 0, 0, err
	}
	end, err = clockMinutes(r.End)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("time range %s-%s is empty or inverted", r.Start, r.End)
	}
	return start, end, nil
}

func clockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock value %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// WeeklyTemplate maps weekdays to the mentor's available ranges. Keying by
// time.Weekday (not day names) keeps lookups typo-proof and exhaustive.
type WeeklyTemplate map[time.Weekday][]TimeRange

// AvailabilityRule is one persisted row of a weekly template. A mentor's
// template is always replaced wholesale, never patched row by row.
type AvailabilityRule struct {
	ID        int64        `json:"id" gorm:"primaryKey"`
	MentorID  int64        `json:"mentor_id" gorm:"index"`
	Weekday   time.Weekday `json:"weekday"`
	StartTime string       `json:"start_time" gorm:"size:5"`
	EndTime   string       `json:"end_time" gorm:"size:5"`
	CreatedAt time.Time    `json:"created_at"`
}

// ExceptionDate excludes a calendar date, fully or partially, from slot
// generation. StartTime/EndTime empty means the whole day is excluded.
type ExceptionDate struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	MentorID  int64     `json:"mentor_id" gorm:"index"`
	Date      string    `json:"date" gorm:"size:10"` // "2006-01-02"
	StartTime string    `json:"start_time,omitempty" gorm:"size:5"`
	EndTime   string    `json:"end_time,omitempty" gorm:"size:5"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FullDay reports whether the exception blocks the entire date.
func (e ExceptionDate) FullDay() bool {
	return e.StartTime == "" || e.EndTime == ""
}
