package availability

import (
	"sort"
	"time"

	"mentorhub/internal/domain"
	"mentorhub/internal/repository"
)

// TimeWindow is one bookable slot. StartTime/EndTime are day-local clock
// values; AbsoluteStart anchors the window on the timeline for booking.
type TimeWindow struct {
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	AbsoluteStart time.Time `json:"absolute_start"`
}

// DaySlots is the generated availability for one calendar date. A date with
// no bookable windows is still emitted with an empty Slots slice, so the
// horizon always has exactly HorizonDays entries.
type DaySlots struct {
	Date  string       `json:"date"`
	Slots []TimeWindow `json:"slots"`
}

type GenerateOptions struct {
	Now         time.Time
	HorizonDays int
	LeadTime    time.Duration
	Location    *time.Location
}

const defaultHorizonDays = 14

// minuteRange is a half-open [start, end) range in minutes since midnight.
type minuteRange struct {
	start int
	end   int
}

// Generate turns a weekly template, exception dates and busy intervals into
// concrete bookable windows over the horizon. It is pure: same inputs, same
// output, no side effects, safe to call concurrently.
//
// For each date: fully-excepted dates yield no slots; partial exceptions are
// subtracted from the weekday's (merged) template ranges; what remains is
// sliced into consecutive windows of exactly durationMinutes, dropping any
// short tail; windows overlapping a busy interval or starting before
// now+LeadTime are dropped.
func Generate(tmpl domain.WeeklyTemplate, exceptions []domain.ExceptionDate, busy []repository.BusyInterval, durationMinutes int, opts GenerateOptions) []DaySlots {
	if durationMinutes <= 0 {
		return nil
	}

	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	horizon := opts.HorizonDays
	if horizon <= 0 {
		horizon = defaultHorizonDays
	}

	now := opts.Now.In(loc)
	earliest := now.Add(opts.LeadTime)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	fullDay := make(map[string]bool)
	partial := make(map[string][]minuteRange)
	for _, e := range exceptions {
		if e.FullDay() {
			fullDay[e.Date] = true
			continue
		}
		rng, ok := toMinuteRange(domain.TimeRange{Start: e.StartTime, End: e.EndTime})
		if ok {
			partial[e.Date] = append(partial[e.Date], rng)
		}
	}

	out := make([]DaySlots, 0, horizon)
	for i := 0; i < horizon; i++ {
		day := today.AddDate(0, 0, i)
		date := day.Format("2006-01-02")
		entry := DaySlots{Date: date, Slots: []TimeWindow{}}

		if fullDay[date] {
			out = append(out, entry)
			continue
		}

		free := mergeRanges(tmpl[day.Weekday()])
		for _, ex := range partial[date] {
			free = subtractRange(free, ex)
		}

		for _, rng := range free {
			for start := rng.start; start+durationMinutes <= rng.end; start += durationMinutes {
				windowStart := day.Add(time.Duration(start) * time.Minute)
				windowEnd := windowStart.Add(time.Duration(durationMinutes) * time.Minute)

				if windowStart.Before(earliest) {
					continue
				}
				if overlapsBusy(busy, windowStart, windowEnd) {
					continue
				}

				entry.Slots = append(entry.Slots, TimeWindow{
					StartTime:     clockString(start),
					EndTime:       clockString(start + durationMinutes),
					AbsoluteStart: windowStart,
				})
			}
		}

		sort.Slice(entry.Slots, func(a, b int) bool {
			return entry.Slots[a].AbsoluteStart.Before(entry.Slots[b].AbsoluteStart)
		})
		out = append(out, entry)
	}

	return out
}

func toMinuteRange(r domain.TimeRange) (minuteRange, bool) {
	start, end, err := r.Minutes()
	if err != nil {
		// Ranges are validated when the template or exception is saved.
		return minuteRange{}, false
	}
	return minuteRange{start: start, end: end}, true
}

// mergeRanges normalises a weekday's template into sorted, disjoint ranges.
func mergeRanges(ranges []domain.TimeRange) []minuteRange {
	parsed := make([]minuteRange, 0, len(ranges))
	for _, r := range ranges {
		if mr, ok := toMinuteRange(r); ok {
			parsed = append(parsed, mr)
		}
	}
	if len(parsed) == 0 {
		return nil
	}

	sort.Slice(parsed, func(i, j int) bool { return parsed[i].start < parsed[j].start })

	merged := parsed[:1]
	for _, r := range parsed[1:] {
		last := &merged[len(merged)-1]
		if r.start <= last.end {
			if r.end > last.end {
				last.end = r.end
			}
		} else {
			merged = append(merged, r)
		}
	}
	return merged
}

// subtractRange removes ex from every range, possibly splitting ranges.
func subtractRange(ranges []minuteRange, ex minuteRange) []minuteRange {
	out := make([]minuteRange, 0, len(ranges)+1)
	for _, r := range ranges {
		if ex.end <= r.start || ex.start >= r.end {
			out = append(out, r)
			continue
		}
		if ex.start > r.start {
			out = append(out, minuteRange{start: r.start, end: ex.start})
		}
		if ex.end < r.end {
			out = append(out, minuteRange{start: ex.end, end: r.end})
		}
	}
	return out
}

func overlapsBusy(busy []repository.BusyInterval, start, end time.Time) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}

func clockString(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04")
}
