package loans

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ===== Interfaces =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	t := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Repository is the storage handle injected into the workflow. WithTx must
// run fn as one atomic unit: either every mutation made through tx is
// committed, or none is.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	GetLoan(ctx context.Context, id string) (*loanRow, error)
	ListLoans(ctx context.Context, f LoanFilter, p Page) ([]loanRow, int64, error)
}

// Tx exposes the row operations available inside a transaction. ItemForUpdate
// and LoanForUpdate take row locks; callers must mutate stock only through
// AdjustStock while holding the item lock.
type Tx interface {
	ItemForUpdate(ctx context.Context, itemID string) (*ItemStock, error)
	AdjustStock(ctx context.Context, itemID string, delta int) error
	LoanForUpdate(ctx context.Context, id string) (*LoanRecord, error)
	InsertLoan(ctx context.Context, rec *LoanRecord) error
	UpdateLoan(ctx context.Context, rec *LoanRecord) error
	DeleteLoan(ctx context.Context, id string) (bool, error)
}

// ===== Service =====

type Service struct {
	repo  Repository
	clock Clock
	id    IDGen
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		clock: realClock{},
		id:    ulidGen{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithIDGen(g IDGen) Option {
	return func(s *Service) { s.id = g }
}

const dateLayout = "2006-01-02"

// CreateLoan reserves stock and records the loan as one transaction. The
// item row is locked before the stock check so two concurrent requests
// against the same item serialize.
func (s *Service) CreateLoan(ctx context.Context, req CreateLoanRequest) (*LoanResponse, error) {
	if req.Quantity < 1 {
		return nil, ErrInvalid("quantity must be >= 1")
	}
	if req.ItemID == "" {
		return nil, ErrInvalid("item_id is required")
	}
	if req.BorrowerName == "" {
		return nil, ErrInvalid("borrower_name is required")
	}

	borrowDate, err := time.Parse(dateLayout, req.BorrowDate)
	if err != nil {
		return nil, ErrInvalid("invalid borrow_date format, expected YYYY-MM-DD")
	}
	returnDate, err := time.Parse(dateLayout, req.ReturnDate)
	if err != nil {
		return nil, ErrInvalid("invalid return_date format, expected YYYY-MM-DD")
	}
	if !returnDate.After(borrowDate) {
		return nil, ErrInvalid("return_date must be after borrow_date")
	}

	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec := &LoanRecord{
		ID:           idStr,
		ItemID:       req.ItemID,
		BorrowerName: req.BorrowerName,
		Quantity:     req.Quantity,
		BorrowDate:   borrowDate,
		ReturnDate:   returnDate,
		Status:       StatusBorrowed,
		Notes:        req.Notes,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var liveName string
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		item, err := tx.ItemForUpdate(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if req.Quantity > item.Stock {
			return ErrInsufficientStock(item.Stock)
		}
		if err := tx.AdjustStock(ctx, item.ID, -req.Quantity); err != nil {
			return err
		}
		rec.ItemName = item.Name
		liveName = item.Name
		return tx.InsertLoan(ctx, rec)
	})
	if err != nil {
		return nil, err
	}

	resp := s.buildResponse(rec, &liveName)
	return &resp, nil
}

// ReturnLoan releases the reservation and marks the record returned.
// Rejected with INVALID_TRANSITION unless the record is still borrowed.
func (s *Service) ReturnLoan(ctx context.Context, id string, actualReturnDate *time.Time, notes, verifiedBy *string) (*LoanResponse, error) {
	var rec *LoanRecord
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		rec, err = tx.LoanForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !rec.Status.CanTransitionTo(StatusReturned) {
			return ErrInvalidTransition(rec.Status, StatusReturned)
		}
		if err := tx.AdjustStock(ctx, rec.ItemID, rec.Quantity); err != nil {
			return err
		}

		rec.Status = StatusReturned
		if actualReturnDate != nil {
			rec.ActualReturnDate = actualReturnDate
		} else {
			now := s.clock.Now()
			rec.ActualReturnDate = &now
		}
		if notes != nil {
			rec.Notes = notes
		}
		if verifiedBy != nil {
			rec.VerifiedBy = verifiedBy
		}
		rec.UpdatedAt = s.clock.Now()
		return tx.UpdateLoan(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return s.getResponse(ctx, rec.ID)
}

// CancelLoan releases the reservation and marks the record cancelled,
// storing the reason in notes.
func (s *Service) CancelLoan(ctx context.Context, id string, reason *string) (*LoanResponse, error) {
	var rec *LoanRecord
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		var err error
		rec, err = tx.LoanForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !rec.Status.CanTransitionTo(StatusCancelled) {
			return ErrInvalidTransition(rec.Status, StatusCancelled)
		}
		if err := tx.AdjustStock(ctx, rec.ItemID, rec.Quantity); err != nil {
			return err
		}

		rec.Status = StatusCancelled
		if reason != nil {
			rec.Notes = reason
		}
		rec.UpdatedAt = s.clock.Now()
		return tx.UpdateLoan(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return s.getResponse(ctx, rec.ID)
}

// DeleteLoan is the administrative escape hatch. A still-borrowed record
// has its reservation reversed before the row goes away.
func (s *Service) DeleteLoan(ctx context.Context, id string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx Tx) error {
		rec, err := tx.LoanForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec.Status == StatusBorrowed {
			if err := tx.AdjustStock(ctx, rec.ItemID, rec.Quantity); err != nil {
				return err
			}
		}
		ok, err := tx.DeleteLoan(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound("loan record not found")
		}
		return nil
	})
}

func (s *Service) GetLoan(ctx context.Context, id string) (*LoanResponse, error) {
	return s.getResponse(ctx, id)
}

func (s *Service) ListLoans(ctx context.Context, f LoanFilter, p Page) ([]LoanResponse, int64, error) {
	rows, total, err := s.repo.ListLoans(ctx, f, p)
	if err != nil {
		return nil, 0, err
	}
	out := make([]LoanResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, s.buildResponse(&r.LoanRecord, r.LiveItemName))
	}
	return out, total, nil
}

// ===== helpers =====

func (s *Service) getResponse(ctx context.Context, id string) (*LoanResponse, error) {
	row, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.buildResponse(&row.LoanRecord, row.LiveItemName)
	return &resp, nil
}

func (s *Service) buildResponse(rec *LoanRecord, liveName *string) LoanResponse {
	name := rec.ItemName
	if liveName != nil {
		name = *liveName
	}
	return LoanResponse{
		ID:               rec.ID,
		ItemID:           rec.ItemID,
		ItemName:         name,
		ItemNameSnapshot: rec.ItemName,
		BorrowerName:     rec.BorrowerName,
		Quantity:         rec.Quantity,
		BorrowDate:       rec.BorrowDate,
		ReturnDate:       rec.ReturnDate,
		ActualReturnDate: rec.ActualReturnDate,
		Status:           rec.Status,
		Overdue:          rec.Status == StatusBorrowed && s.clock.Now().After(rec.ReturnDate),
		Notes:            rec.Notes,
		CreatedBy:        rec.CreatedBy,
		VerifiedBy:       rec.VerifiedBy,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}
