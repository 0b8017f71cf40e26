package reports

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"
)

// Report is a rendered export, ready for CSV encoding.
type Report struct {
	Filename string
	Header   []string
	Rows     [][]string
}

type Service struct {
	store *Store
}

func NewService(db *sql.DB) *Service {
	return &Service{store: NewStore(db)}
}

func (s *Service) UsersReport(ctx context.Context) (*Report, error) {
	rows, err := s.store.Users(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, u := range rows {
		out = append(out, []string{u.ID, u.Email, u.Name, u.Role, u.CreatedAt.Format(time.RFC3339)})
	}
	return &Report{
		Filename: fmt.Sprintf("users-%s.csv", time.Now().Format("2006-01-02")),
		Header:   []string{"id", "email", "name", "role", "created_at"},
		Rows:     out,
	}, nil
}

func (s *Service) ItemsReport(ctx context.Context) (*Report, error) {
	rows, err := s.store.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, it := range rows {
		out = append(out, []string{
			it.ID, it.Name, it.Category, strconv.Itoa(it.Stock), it.Location, it.Condition,
		})
	}
	return &Report{
		Filename: fmt.Sprintf("items-%s.csv", time.Now().Format("2006-01-02")),
		Header:   []string{"id", "name", "category", "stock", "location", "condition"},
		Rows:     out,
	}, nil
}

func (s *Service) LoansReport(ctx context.Context) (*Report, error) {
	rows, err := s.store.Loans(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]string, 0, len(rows))
	for _, l := range rows {
		actual := ""
		if l.ActualReturnDate != nil {
			actual = l.ActualReturnDate.Format("2006-01-02")
		}
		out = append(out, []string{
			l.ID, l.ItemName, l.BorrowerName, strconv.Itoa(l.Quantity),
			l.BorrowDate.Format("2006-01-02"), l.ReturnDate.Format("2006-01-02"),
			actual, l.Status,
		})
	}
	return &Report{
		Filename: fmt.Sprintf("loans-%s.csv", time.Now().Format("2006-01-02")),
		Header:   []string{"id", "item_name", "borrower_name", "quantity", "borrow_date", "return_date", "actual_return_date", "status"},
		Rows:     out,
	}, nil
}
