// README: Availability snapshot store backed by PostgreSQL.
package availability

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) AppendSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO availability_snapshots (code, source, total_lots, available_lots, recorded_at)
        VALUES ($1, $2, $3, $4, $5)`,
		snap.Code,
		snap.Source,
		snap.TotalLots,
		snap.Available,
		snap.RecordedAt,
	)
	return err
}

// Latest returns the most recent snapshot for a carpark from one source.
func (s *Store) Latest(ctx context.Context, source, code string) (Snapshot, error) {
	row := s.db.QueryRow(ctx, `
        SELECT id, code, source, total_lots, available_lots, recorded_at
        FROM availability_snapshots
        WHERE source = $1 AND code = $2
        ORDER BY recorded_at DESC
        LIMIT 1`, source, code,
	)
	var snap Snapshot
	err := row.Scan(&snap.ID, &snap.Code, &snap.Source, &snap.TotalLots, &snap.Available, &snap.RecordedAt)
	return snap, err
}
