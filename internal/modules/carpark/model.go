// README: Carpark record and immutable registry.
package carpark

import (
	"sort"

	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/modules/tariff"
	"github.com/Mohammed-Faizzzz/sg-carpark-finder/internal/types"
)

type Type string

const (
	TypeHDB Type = "HDB"
	TypeURA Type = "URA"
)

// Carpark is one entry of the combined dataset. Schedule may be nil for
// records that never merged with a rates table; pricing such a carpark
// fails with a typed error the caller downgrades to a note.
type Carpark struct {
	Code      string
	Address   string
	Type      Type
	Position  types.Point
	TotalLots int
	Schedule  *tariff.Schedule
}

// Registry is the full carpark dataset, loaded once at startup and never
// mutated afterwards. Concurrent readers share it without locking.
type Registry struct {
	byCode map[string]*Carpark
	codes  []string
}

func NewRegistry(carparks []*Carpark) *Registry {
	r := &Registry{byCode: make(map[string]*Carpark, len(carparks))}
	for _, cp := range carparks {
		if _, dup := r.byCode[cp.Code]; dup {
			continue
		}
		r.byCode[cp.Code] = cp
		r.codes = append(r.codes, cp.Code)
	}
	sort.Strings(r.codes)
	return r
}

func (r *Registry) Get(code string) (*Carpark, bool) {
	cp, ok := r.byCode[code]
	return cp, ok
}

// All returns every carpark in stable code order.
func (r *Registry) All() []*Carpark {
	out := make([]*Carpark, 0, len(r.codes))
	for _, code := range r.codes {
		out = append(out, r.byCode[code])
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.codes)
}
