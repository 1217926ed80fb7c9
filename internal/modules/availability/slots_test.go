package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentorhub/internal/domain"
	"mentorhub/internal/repository"
)

// Monday 2026-01-05 is a fixed anchor so weekday math stays stable.
var monday = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func mondayTemplate(ranges ...domain.TimeRange) domain.WeeklyTemplate {
	return domain.WeeklyTemplate{time.Monday: ranges}
}

func TestGenerate_FullWorkday(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "17:00"})

	days := Generate(tmpl, nil, nil, 30, GenerateOptions{
		Now:         monday.Add(8 * time.Hour), // Monday 08:00
		HorizonDays: 14,
	})

	require.Len(t, days, 14)
	require.Equal(t, "2026-01-05", days[0].Date)

	// 8 hours sliced into 30-minute windows: 09:00 through 16:30.
	require.Len(t, days[0].Slots, 16)
	assert.Equal(t, "09:00", days[0].Slots[0].StartTime)
	assert.Equal(t, "09:30", days[0].Slots[0].EndTime)
	assert.Equal(t, "16:30", days[0].Slots[15].StartTime)
	assert.Equal(t, "17:00", days[0].Slots[15].EndTime)
}

func TestGenerate_BusyIntervalRemovesOnlyThatWindow(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "17:00"})
	busy := []repository.BusyInterval{
		{Start: monday.Add(10 * time.Hour), End: monday.Add(10*time.Hour + 30*time.Minute)},
	}

	days := Generate(tmpl, nil, busy, 30, GenerateOptions{
		Now:         monday.Add(8 * time.Hour),
		HorizonDays: 14,
	})

	require.Len(t, days[0].Slots, 15)
	for _, slot := range days[0].Slots {
		assert.NotEqual(t, "10:00", slot.StartTime)
	}
}

func TestGenerate_BusyIntervalSpanningSeveralWindows(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "12:00"})
	// 09:45-10:45 straddles the 09:30, 10:00 and 10:30 windows.
	busy := []repository.BusyInterval{
		{Start: monday.Add(9*time.Hour + 45*time.Minute), End: monday.Add(10*time.Hour + 45*time.Minute)},
	}

	days := Generate(tmpl, nil, busy, 30, GenerateOptions{
		Now:         monday.Add(8 * time.Hour),
		HorizonDays: 1,
	})

	starts := slotStarts(days[0])
	assert.Equal(t, []string{"09:00", "11:00", "11:30"}, starts)
}

func TestGenerate_NoOverlapAndSorted(t *testing.T) {
	tmpl := domain.WeeklyTemplate{
		time.Monday: {
			{Start: "13:00", End: "15:00"},
			{Start: "09:00", End: "11:00"},
			{Start: "10:30", End: "12:00"}, // overlaps the 09:00 range
		},
	}

	days := Generate(tmpl, nil, nil, 30, GenerateOptions{
		Now:         monday.Add(7 * time.Hour),
		HorizonDays: 1,
	})

	slots := days[0].Slots
	require.NotEmpty(t, slots)
	for i := 1; i < len(slots); i++ {
		prevEnd := slots[i-1].AbsoluteStart.Add(30 * time.Minute)
		assert.False(t, slots[i].AbsoluteStart.Before(prevEnd),
			"slot %s starts before previous slot ends", slots[i].StartTime)
	}
	// Merged 09:00-12:00 yields six windows, 13:00-15:00 yields four.
	assert.Len(t, slots, 10)
}

func TestGenerate_LeadTimeFiltersEarlyWindows(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "12:00"})

	days := Generate(tmpl, nil, nil, 30, GenerateOptions{
		Now:         monday.Add(9 * time.Hour), // Monday 09:00
		HorizonDays: 1,
		LeadTime:    time.Hour,
	})

	starts := slotStarts(days[0])
	// Nothing before 10:00 is bookable.
	assert.Equal(t, []string{"10:00", "10:30", "11:00", "11:30"}, starts)
}

func TestGenerate_WindowExactlyAtLeadBoundaryIsKept(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "10:00"})

	days := Generate(tmpl, nil, nil, 30, GenerateOptions{
		Now:         monday.Add(8*time.Hour + 30*time.Minute),
		HorizonDays: 1,
		LeadTime:    30 * time.Minute,
	})

	// earliest == 09:00, the 09:00 window is not strictly before it.
	assert.Equal(t, []string{"09:00", "09:30"}, slotStarts(days[0]))
}

func TestGenerate_FullDayException(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "17:00"})
	exceptions := []domain.ExceptionDate{
		{MentorID: 1, Date: "2026-01-05"},
	}

	days := Generate(tmpl, exceptions, nil, 30, GenerateOptions{
		Now:         monday.Add(8 * time.Hour),
		HorizonDays: 14,
	})

	require.Equal(t, "2026-01-05", days[0].Date)
	assert.Empty(t, days[0].Slots)
	// The next Monday is unaffected.
	assert.Equal(t, "2026-01-12", days[7].Date)
	assert.Len(t, days[7].Slots, 16)
}

func TestGenerate_PartialExceptionSplitsTheDay(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "13:00"})
	exceptions := []domain.ExceptionDate{
		{MentorID: 1, Date: "2026-01-05", StartTime: "10:00", EndTime: "11:00"},
	}

	days := Generate(tmpl, exceptions, nil, 30, GenerateOptions{
		Now:         monday.Add(8 * time.Hour),
		HorizonDays: 1,
	})

	assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30", "12:00", "12:30"}, slotStarts(days[0]))
}

func TestGenerate_ShortTailIsDropped(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "10:45"})

	days := Generate(tmpl, nil, nil, 30, GenerateOptions{
		Now:         monday.Add(8 * time.Hour),
		HorizonDays: 1,
	})

	// The 10:30-10:45 remainder cannot hold a 30-minute window.
	assert.Equal(t, []string{"09:00", "09:30", "10:00"}, slotStarts(days[0]))
}

func TestGenerate_SixtyMinuteDuration(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "12:30"})

	days := Generate(tmpl, nil, nil, 60, GenerateOptions{
		Now:         monday.Add(8 * time.Hour),
		HorizonDays: 1,
	})

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotStarts(days[0]))
}

func TestGenerate_EveryDateEmittedEvenWhenEmpty(t *testing.T) {
	// Template covers Mondays only; the other 12 days must still appear.
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "10:00"})

	days := Generate(tmpl, nil, nil, 30, GenerateOptions{
		Now:         monday.Add(8 * time.Hour),
		HorizonDays: 14,
	})

	require.Len(t, days, 14)
	for i, day := range days {
		assert.NotNil(t, day.Slots, "day %d slots must be non-nil", i)
		expected := monday.AddDate(0, 0, i).Format("2006-01-02")
		assert.Equal(t, expected, day.Date)
	}
	assert.Empty(t, days[1].Slots)
	assert.NotEmpty(t, days[7].Slots)
}

func TestGenerate_EmptyTemplate(t *testing.T) {
	days := Generate(domain.WeeklyTemplate{}, nil, nil, 30, GenerateOptions{
		Now:         monday,
		HorizonDays: 14,
	})

	require.Len(t, days, 14)
	for _, day := range days {
		assert.Empty(t, day.Slots)
	}
}

func TestGenerate_InvalidDuration(t *testing.T) {
	tmpl := mondayTemplate(domain.TimeRange{Start: "09:00", End: "17:00"})
	assert.Nil(t, Generate(tmpl, nil, nil, 0, GenerateOptions{Now: monday, HorizonDays: 1}))
	assert.Nil(t, Generate(tmpl, nil, nil, -15, GenerateOptions{Now: monday, HorizonDays: 1}))
}

func TestGenerate_DeterministicForSameInputs(t *testing.T) {
	tmpl := mondayTemplate(
		domain.TimeRange{Start: "09:00", End: "12:00"},
		domain.TimeRange{Start: "14:00", End: "17:00"},
	)
	busy := []repository.BusyInterval{
		{Start: monday.Add(15 * time.Hour), End: monday.Add(16 * time.Hour)},
	}
	opts := GenerateOptions{Now: monday.Add(8 * time.Hour), HorizonDays: 14, LeadTime: time.Hour}

	first := Generate(tmpl, nil, busy, 30, opts)
	second := Generate(tmpl, nil, busy, 30, opts)
	assert.Equal(t, first, second)
}

func slotStarts(day DaySlots) []string {
	starts := make([]string, 0, len(day.Slots))
	for _, s := range day.Slots {
		starts = append(starts, s.StartTime)
	}
	return starts
}
