// README: Tariff schedule model: day types, rate windows, validation.
package tariff

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

// DayType classifies a calendar date for tariff purposes. Public holidays
// collapse to Sunday rules.
type DayType int

const (
	Weekday DayType = iota
	Saturday
	SundayPH
)

func (d DayType) String() string {
	switch d {
	case Weekday:
		return "weekday"
	case Saturday:
		return "saturday"
	case SundayPH:
		return "sunday_ph"
	}
	return fmt.Sprintf("daytype(%d)", int(d))
}

type WindowKind int

const (
	Free WindowKind = iota
	Paid
)

// EndOfDay is the symbolic 24:00 boundary in minutes from midnight.
const EndOfDay = 24 * 60

// Window is a time-of-day range within one day type. Start and End are
// minutes from local midnight; End may be EndOfDay. Paid windows bill any
// partial block as a full block.
type Window struct {
	Start        int
	End          int
	Kind         WindowKind
	BlockMinutes int
	BlockRate    types.Money
}

var ErrInvalidWindow = errors.New("tariff: invalid window")

func (w Window) validate() error {
	if w.Start < 0 || w.End > EndOfDay || w.Start >= w.End {
		return fmt.Errorf("%w: range %d-%d", ErrInvalidWindow, w.Start, w.End)
	}
	if w.Kind == Paid {
		if w.BlockMinutes <= 0 {
			return fmt.Errorf("%w: block of %d minutes", ErrInvalidWindow, w.BlockMinutes)
		}
		if w.BlockRate.Amount < 0 {
			return fmt.Errorf("%w: negative block rate", ErrInvalidWindow)
		}
	}
	return nil
}

// Schedule maps each day type to its ordered rate windows. Windows for a day
// type are pairwise non-overlapping but need not cover the full day; time
// outside every window is free. A Schedule is immutable once built.
type Schedule struct {
	days map[DayType][]Window
}

// NewSchedule validates the given windows and returns an immutable schedule
// with each day's windows sorted by start time. Malformed windows are a
// load-time failure, never a per-request surprise.
func NewSchedule(days map[DayType][]Window) (*Schedule, error) {
	out := make(map[DayType][]Window, len(days))
	for day, windows := range days {
		sorted := make([]Window, len(windows))
		copy(sorted, windows)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })
		for i, w := range sorted {
			if err := w.validate(); err != nil {
				return nil, fmt.Errorf("%s window %d: %w", day, i, err)
			}
			if i > 0 && w.Start < sorted[i-1].End {
				return nil, fmt.Errorf("%s window %d: %w: overlaps previous window", day, i, ErrInvalidWindow)
			}
		}
		out[day] = sorted
	}
	return &Schedule{days: out}, nil
}

// Windows returns the windows for a day type, ordered by start time.
func (s *Schedule) Windows(d DayType) []Window {
	return s.days[d]
}

// Empty reports whether the schedule defines no windows at all.
func (s *Schedule) Empty() bool {
	if s == nil {
		return true
	}
	for _, windows := range s.days {
		if len(windows) > 0 {
			return false
		}
	}
	return true
}
