package reports

import (
	"context"
	"database/sql"
	"time"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

type userRow struct {
	ID        string
	Email     string
	Name      string
	Role      string
	CreatedAt time.Time
}

func (s *Store) Users(ctx context.Context) ([]userRow, error) {
	const q = `SELECT id, email, name, role, created_at FROM users ORDER BY created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []userRow
	for rows.Next() {
		var r userRow
		if err := rows.Scan(&r.ID, &r.Email, &r.Name, &r.Role, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type itemRow struct {
	ID        string
	Name      string
	Category  string
	Stock     int
	Location  string
	Condition string
}

func (s *Store) Items(ctx context.Context) ([]itemRow, error) {
	const q = "SELECT id, name, category, stock, location, `condition` FROM items ORDER BY created_at DESC"
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []itemRow
	for rows.Next() {
		var r itemRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Category, &r.Stock, &r.Location, &r.Condition); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type loanRow struct {
	ID               string
	ItemName         string
	BorrowerName     string
	Quantity         int
	BorrowDate       time.Time
	ReturnDate       time.Time
	ActualReturnDate *time.Time
	Status           string
}

func (s *Store) Loans(ctx context.Context) ([]loanRow, error) {
	const q = `
	SELECT l.id, COALESCE(i.name, l.item_name), l.borrower_name, l.quantity,
	       l.borrow_date, l.return_date, l.actual_return_date, l.status
	FROM loan_records l
	LEFT JOIN items i ON i.id = l.item_id
	ORDER BY l.created_at DESC`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loanRow
	for rows.Next() {
		var r loanRow
		if err := rows.Scan(&r.ID, &r.ItemName, &r.BorrowerName, &r.Quantity,
			&r.BorrowDate, &r.ReturnDate, &r.ActualReturnDate, &r.Status); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
