package dashboard

import (
	"context"
	"database/sql"
	"time"

	"github.com/Dwiki2205/sistem-inventaris-kdju/internal/platform/db"
)

type Store struct {
	db *sql.DB
}

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// Stats reads the four counters in one read-only transaction so the
// numbers come from a consistent snapshot.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		queries := []struct {
			q    string
			dest *int64
		}{
			{`SELECT COUNT(*) FROM items`, &out.TotalItems},
			{`SELECT COUNT(*) FROM loan_records WHERE status = 'borrowed'`, &out.TotalBorrowed},
			{"SELECT COUNT(*) FROM items WHERE `condition` = 'damaged'", &out.DamagedItems},
			{`SELECT COUNT(*) FROM users`, &out.TotalUsers},
		}
		for _, c := range queries {
			if err := tx.QueryRowContext(ctx, c.q).Scan(c.dest); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type activityRow struct {
	ID           string
	ItemName     string
	BorrowerName string
	Status       string
	CreatedAt    time.Time
}

func (s *Store) RecentLoans(ctx context.Context, limit int) ([]activityRow, error) {
	const q = `
	SELECT l.id, COALESCE(i.name, l.item_name), l.borrower_name, l.status, l.created_at
	FROM loan_records l
	LEFT JOIN items i ON i.id = l.item_id
	ORDER BY l.created_at DESC
	LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []activityRow
	for rows.Next() {
		var r activityRow
		if err := rows.Scan(&r.ID, &r.ItemName, &r.BorrowerName, &r.Status, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
