// README: Tariff engine: splits a stay into per-day segments and bills each
// window overlap with independent block rounding.
package tariff

import (
	"errors"
	"time"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

var (
	ErrInvalidInterval = errors.New("tariff: stay ends before it starts")
	ErrMissingTariff   = errors.New("tariff: carpark has no rate schedule")
	ErrStayTooLong     = errors.New("tariff: stay exceeds the maximum span")
)

// DefaultMaxStay bounds the per-day loop against swapped or mis-scaled
// caller timestamps.
const DefaultMaxStay = 30 * 24 * time.Hour

// Engine prices stay intervals against carpark schedules. It holds no
// per-request state and is safe for concurrent use.
type Engine struct {
	maxStay time.Duration
}

func NewEngine(maxStay time.Duration) *Engine {
	if maxStay <= 0 {
		maxStay = DefaultMaxStay
	}
	return &Engine{maxStay: maxStay}
}

// Cost bills the stay [start, end) against the schedule. Both timestamps are
// taken as wall time in the same zone as the tariff tables; no conversion is
// performed. A zero-length stay costs zero.
func (e *Engine) Cost(s *Schedule, holidays HolidaySet, start, end time.Time) (types.Money, error) {
	if end.Before(start) {
		return types.Money{}, ErrInvalidInterval
	}
	if s.Empty() {
		return types.Money{}, ErrMissingTariff
	}
	if end.Sub(start) > e.maxStay {
		return types.Money{}, ErrStayTooLong
	}

	var total int64
	for _, seg := range splitDays(start, end) {
		day := ResolveDayType(seg.date, holidays)
		for _, w := range s.Windows(day) {
			total += charge(w, overlap(w, seg))
		}
	}
	return types.Money{Amount: total, Currency: types.SGD}, nil
}

// daySegment is the part of a stay confined to one calendar date. date is
// that day's local midnight.
type daySegment struct {
	start, end time.Time
	date       time.Time
}

// splitDays decomposes [start, end) into per-calendar-day segments with no
// gaps and no overlaps. Tariff rules are keyed by calendar day, so a stay
// crossing midnight is billed under each day's own windows.
func splitDays(start, end time.Time) []daySegment {
	var segs []daySegment
	cur := start
	for cur.Before(end) {
		y, m, d := cur.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, cur.Location())
		next := midnight.AddDate(0, 0, 1)
		segEnd := end
		if next.Before(end) {
			segEnd = next
		}
		segs = append(segs, daySegment{start: cur, end: segEnd, date: midnight})
		cur = segEnd
	}
	return segs
}

// overlap returns how much of the segment falls inside the window, anchored
// to the segment's date. Zero when they do not intersect.
func overlap(w Window, seg daySegment) time.Duration {
	ws := seg.date.Add(time.Duration(w.Start) * time.Minute)
	we := seg.date.Add(time.Duration(w.End) * time.Minute)
	s, e := seg.start, seg.end
	if ws.After(s) {
		s = ws
	}
	if we.Before(e) {
		e = we
	}
	if !e.After(s) {
		return 0
	}
	return e.Sub(s)
}

// charge bills one window overlap. Each overlap rounds up to whole blocks on
// its own: a stay straddling two paid windows is billed per window, never by
// rounding the combined duration once.
func charge(w Window, d time.Duration) int64 {
	if d <= 0 || w.Kind == Free {
		return 0
	}
	block := time.Duration(w.BlockMinutes) * time.Minute
	blocks := int64((d + block - 1) / block)
	return blocks * w.BlockRate.Amount
}
