// README: Live lot-availability domain types.
package availability

import "time"

// Feed sources. Each source owns an isolated copy of its lot counts so one
// poller can never clobber another's view mid-update.
const (
	SourceHDB = "HDB"
	SourceURA = "URA"
)

// Lots is one carpark's live counts. Total is 0 when the feed does not
// publish capacity (the URA feed); readers fall back to the registry's
// static count.
type Lots struct {
	Total     int
	Available int
}

// Snapshot is one persisted availability observation.
type Snapshot struct {
	ID         int64
	Code       string
	Source     string
	TotalLots  int
	Available  int
	RecordedAt time.Time
}
