// README: Availability service holds per-source live lot counts.
package availability

import (
	"context"
	"log"
	"sync"
	"time"
)

// Service is the read side shared by request handlers. Writers are the
// per-source pollers; each source's counts replace wholesale on every poll,
// never merge, so sources stay isolated from one another.
type Service struct {
	mu      sync.RWMutex
	sources map[string]map[string]Lots
	store   *Store // optional snapshot sink
}

func NewService(store *Store) *Service {
	return &Service{
		sources: make(map[string]map[string]Lots),
		store:   store,
	}
}

// Apply replaces one source's entire view with the latest poll result and,
// when a store is wired, appends one snapshot per carpark. Snapshot write
// failures are logged, not propagated: persistence is best effort and must
// not stall the poller.
func (s *Service) Apply(ctx context.Context, source string, updates map[string]Lots) {
	copied := make(map[string]Lots, len(updates))
	for code, lots := range updates {
		copied[code] = lots
	}

	s.mu.Lock()
	s.sources[source] = copied
	s.mu.Unlock()

	if s.store == nil {
		return
	}
	now := time.Now()
	for code, lots := range copied {
		err := s.store.AppendSnapshot(ctx, Snapshot{
			Code:       code,
			Source:     source,
			TotalLots:  lots.Total,
			Available:  lots.Available,
			RecordedAt: now,
		})
		if err != nil {
			log.Printf("availability: snapshot %s/%s: %v", source, code, err)
			return
		}
	}
}

// Lookup returns the live counts for a carpark from the given source.
func (s *Service) Lookup(source, code string) (Lots, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lots, ok := s.sources[source][code]
	return lots, ok
}
