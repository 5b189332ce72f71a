// README: Carpark store backed by PostgreSQL.
package carpark

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

// UpsertAll persists the registry so other tooling can query it with SQL.
// The in-process registry stays the source of truth for request handling.
func (s *Store) UpsertAll(ctx context.Context, carparks []*Carpark) error {
	for _, cp := range carparks {
		_, err := s.db.Exec(ctx, `
            INSERT INTO carparks (code, address, type, lat, lng, total_lots)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (code) DO UPDATE SET
                address = EXCLUDED.address,
                type = EXCLUDED.type,
                lat = EXCLUDED.lat,
                lng = EXCLUDED.lng,
                total_lots = EXCLUDED.total_lots`,
			cp.Code,
			cp.Address,
			string(cp.Type),
			cp.Position.Lat,
			cp.Position.Lng,
			cp.TotalLots,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of persisted carparks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM carparks`).Scan(&n)
	return n, err
}
