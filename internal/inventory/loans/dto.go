package loans

import "time"

// Loan creation request. Dates are "2006-01-02" strings (DATE columns).
type CreateLoanRequest struct {
	ItemID       string  `json:"item_id" binding:"required"`
	BorrowerName string  `json:"borrower_name" binding:"required"`
	Quantity     int     `json:"quantity" binding:"required"`
	BorrowDate   string  `json:"borrow_date" binding:"required"`
	ReturnDate   string  `json:"return_date" binding:"required"`
	Notes        *string `json:"notes,omitempty"`
	CreatedBy    *string `json:"created_by,omitempty"`
}

// PATCH body. Status selects the transition: "returned" or "cancelled".
type UpdateLoanRequest struct {
	Status           Status  `json:"status" binding:"required"`
	ActualReturnDate *string `json:"actual_return_date,omitempty"`
	Notes            *string `json:"notes,omitempty"`
	VerifiedBy       *string `json:"verified_by,omitempty"`
}

type LoanResponse struct {
	ID               string     `json:"id"`
	ItemID           string     `json:"item_id"`
	ItemName         string     `json:"item_name"`
	ItemNameSnapshot string     `json:"item_name_snapshot"`
	BorrowerName     string     `json:"borrower_name"`
	Quantity         int        `json:"quantity"`
	BorrowDate       time.Time  `json:"borrow_date"`
	ReturnDate       time.Time  `json:"return_date"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
	Status           Status     `json:"status"`
	Overdue          bool       `json:"overdue"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedBy        *string    `json:"created_by,omitempty"`
	VerifiedBy       *string    `json:"verified_by,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
