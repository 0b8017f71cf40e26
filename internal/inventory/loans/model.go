package loans

import "time"

// Status is the lifecycle state of a loan record.
type Status string

const (
	StatusBorrowed  Status = "borrowed"
	StatusReturned  Status = "returned"
	StatusOverdue   Status = "overdue"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBorrowed, StatusReturned, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// transitions is the closed transition table. borrowed is the only state
// with outgoing edges; returned and cancelled are terminal. overdue is a
// display flag computed from the due date, never a stored transition.
var transitions = map[Status][]Status{
	StatusBorrowed:  {StatusReturned, StatusCancelled},
	StatusReturned:  {},
	StatusCancelled: {},
}

func (s Status) CanTransitionTo(t Status) bool {
	for _, next := range transitions[s] {
		if next == t {
			return true
		}
	}
	return false
}

// LoanRecord is one row of loan_records. ItemName is the snapshot taken at
// creation time; listings resolve the live name via join and fall back to
// the snapshot when the item is gone.
type LoanRecord struct {
	ID               string
	ItemID           string
	ItemName         string
	BorrowerName     string
	Quantity         int
	BorrowDate       time.Time
	ReturnDate       time.Time
	ActualReturnDate *time.Time
	Status           Status
	Notes            *string
	CreatedBy        *string
	VerifiedBy       *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ItemStock is the slice of the item row the workflow needs while holding
// the row lock.
type ItemStock struct {
	ID    string
	Name  string
	Stock int
}

// loanRow couples a record with the live item name from the join.
type loanRow struct {
	LoanRecord
	LiveItemName *string
}

type LoanFilter struct {
	Status       *Status
	ItemID       *string
	BorrowerName *string
}

type Page struct {
	Limit  int
	Offset int
	Order  string
}
