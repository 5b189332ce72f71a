// README: Combined carpark dataset loader (JSON produced by the data prep
// step from the HDB and URA registries).
package carpark

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/tariff"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

// rawWindow is one rate window as stored in the dataset. Rates are decimal
// dollars in the file; they are converted to cents exactly once here.
type rawWindow struct {
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Type         string  `json:"type"` // "free" or "paid"
	BlockMinutes int     `json:"block_minutes"`
	BlockRate    float64 `json:"block_rate"`
}

type rawCarpark struct {
	Address     string                 `json:"address"`
	Coordinates [2]float64             `json:"coordinates"` // [lat, lng]
	Type        string                 `json:"type"`
	TotalLots   int                    `json:"total_lots"`
	Rates       map[string][]rawWindow `json:"rates"`
}

// Day-type keys used by the dataset.
var dayKeys = map[string]tariff.DayType{
	"weekday":   tariff.Weekday,
	"saturday":  tariff.Saturday,
	"sunday_ph": tariff.SundayPH,
}

// LoadDataset reads the combined carpark dataset from disk.
func LoadDataset(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ParseDataset(f)
}

// ParseDataset decodes the combined dataset and validates every tariff
// window up front, so malformed data fails the load instead of a request.
func ParseDataset(r io.Reader) (*Registry, error) {
	var raw map[string]rawCarpark
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	carparks := make([]*Carpark, 0, len(raw))
	for code, rc := range raw {
		cp := &Carpark{
			Code:      code,
			Address:   rc.Address,
			Type:      Type(rc.Type),
			Position:  types.Point{Lat: rc.Coordinates[0], Lng: rc.Coordinates[1]},
			TotalLots: rc.TotalLots,
		}
		if len(rc.Rates) > 0 {
			sched, err := buildSchedule(rc.Rates)
			if err != nil {
				return nil, fmt.Errorf("carpark %s: %w", code, err)
			}
			cp.Schedule = sched
		}
		carparks = append(carparks, cp)
	}
	return NewRegistry(carparks), nil
}

func buildSchedule(rates map[string][]rawWindow) (*tariff.Schedule, error) {
	days := make(map[tariff.DayType][]tariff.Window, len(rates))
	for key, raws := range rates {
		day, ok := dayKeys[key]
		if !ok {
			return nil, fmt.Errorf("unknown day type %q", key)
		}
		windows := make([]tariff.Window, 0, len(raws))
		for _, rw := range raws {
			w, err := buildWindow(rw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			windows = append(windows, w)
		}
		days[day] = windows
	}
	return tariff.NewSchedule(days)
}

func buildWindow(rw rawWindow) (tariff.Window, error) {
	start, err := parseClock(rw.Start)
	if err != nil {
		return tariff.Window{}, err
	}
	end, err := parseClock(rw.End)
	if err != nil {
		return tariff.Window{}, err
	}
	w := tariff.Window{Start: start, End: end}
	switch rw.Type {
	case "free":
		w.Kind = tariff.Free
	case "paid":
		w.Kind = tariff.Paid
		w.BlockMinutes = rw.BlockMinutes
		w.BlockRate = types.FromDollars(rw.BlockRate, types.SGD)
	default:
		return tariff.Window{}, fmt.Errorf("unknown window type %q", rw.Type)
	}
	return w, nil
}

// parseClock converts "HH:MM" to minutes from midnight. "24:00" is the
// symbolic end of day.
func parseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	return h*60 + m, nil
}
