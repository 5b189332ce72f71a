// README: Holiday set and day-type resolution.
package tariff

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const dateLayout = "2006-01-02"

// HolidaySet is the set of calendar dates billed under Sunday rules. The
// engine never computes holidays itself; callers source them (a static
// yearly table in this deployment) and inject the set per call.
type HolidaySet map[string]struct{}

func NewHolidaySet(dates ...time.Time) HolidaySet {
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		h.Add(d)
	}
	return h
}

func (h HolidaySet) Add(t time.Time) {
	h[t.Format(dateLayout)] = struct{}{}
}

func (h HolidaySet) Contains(t time.Time) bool {
	_, ok := h[t.Format(dateLayout)]
	return ok
}

// LoadHolidays reads a JSON array of YYYY-MM-DD dates.
func LoadHolidays(path string) (HolidaySet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays: %w", err)
	}
	var dates []string
	if err := json.Unmarshal(raw, &dates); err != nil {
		return nil, fmt.Errorf("parse holidays: %w", err)
	}
	h := make(HolidaySet, len(dates))
	for _, d := range dates {
		t, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("parse holiday date %q: %w", d, err)
		}
		h.Add(t)
	}
	return h, nil
}

// ResolveDayType maps a calendar date to its tariff day type. Holidays and
// Sundays share a bucket; everything else splits Saturday vs weekday.
func ResolveDayType(t time.Time, holidays HolidaySet) DayType {
	if holidays.Contains(t) {
		return SundayPH
	}
	switch t.Weekday() {
	case time.Sunday:
		return SundayPH
	case time.Saturday:
		return Saturday
	default:
		return Weekday
	}
}
