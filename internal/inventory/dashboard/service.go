package dashboard

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Stats are the dashboard counters. Pure projections over the ledger, the
// loan store and the user directory.
type Stats struct {
	TotalItems    int64 `json:"total_items"`
	TotalBorrowed int64 `json:"total_borrowed"`
	DamagedItems  int64 `json:"damaged_items"`
	TotalUsers    int64 `json:"total_users"`
}

type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
}

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	return s.store.Stats(ctx)
}

func (s *Service) RecentActivities(ctx context.Context) ([]Activity, error) {
	rows, err := s.store.RecentLoans(ctx, 10)
	if err != nil {
		return nil, err
	}
	out := make([]Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, Activity{
			ID:          r.ID,
			Type:        "borrow",
			Title:       fmt.Sprintf("Loan of %s", r.ItemName),
			Description: fmt.Sprintf("Borrowed by %s", r.BorrowerName),
			Status:      r.Status,
			Date:        r.CreatedAt,
		})
	}
	return out, nil
}
