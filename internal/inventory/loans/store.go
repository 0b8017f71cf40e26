package loans

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Store is the MySQL-backed Repository.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	dbtx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(ctx, &storeTx{tx: dbtx}); err != nil {
		_ = dbtx.Rollback()
		return err
	}
	return dbtx.Commit()
}

type storeTx struct {
	tx *sql.Tx
}

// ItemForUpdate locks the item row for the rest of the transaction.
func (t *storeTx) ItemForUpdate(ctx context.Context, itemID string) (*ItemStock, error) {
	const q = `SELECT id, name, stock FROM items WHERE id = ? FOR UPDATE`
	var it ItemStock
	if err := t.tx.QueryRowContext(ctx, q, itemID).Scan(&it.ID, &it.Name, &it.Stock); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("item not found")
		}
		return nil, err
	}
	return &it, nil
}

// AdjustStock applies a signed delta. The WHERE guard keeps the column from
// ever going negative even if a caller skipped the stock check.
func (t *storeTx) AdjustStock(ctx context.Context, itemID string, delta int) error {
	const q = `UPDATE items SET stock = stock + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND stock + ? >= 0`
	res, err := t.tx.ExecContext(ctx, q, delta, itemID, delta)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff != 1 {
		return ErrInternal("failed to update items.stock")
	}
	return nil
}

func (t *storeTx) LoanForUpdate(ctx context.Context, id string) (*LoanRecord, error) {
	const q = `
	SELECT id, item_id, item_name, borrower_name, quantity, borrow_date, return_date,
	       actual_return_date, status, notes, created_by, verified_by, created_at, updated_at
	FROM loan_records WHERE id = ? FOR UPDATE`
	var m LoanRecord
	err := t.tx.QueryRowContext(ctx, q, id).Scan(
		&m.ID, &m.ItemID, &m.ItemName, &m.BorrowerName, &m.Quantity, &m.BorrowDate, &m.ReturnDate,
		&m.ActualReturnDate, &m.Status, &m.Notes, &m.CreatedBy, &m.VerifiedBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("loan record not found")
		}
		return nil, err
	}
	return &m, nil
}

func (t *storeTx) InsertLoan(ctx context.Context, rec *LoanRecord) error {
	const q = `
	INSERT INTO loan_records
	(id, item_id, item_name, borrower_name, quantity, borrow_date, return_date, status, notes, created_by, created_at, updated_at)
	VALUES
	(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	_, err := t.tx.ExecContext(ctx, q,
		rec.ID, rec.ItemID, rec.ItemName, rec.BorrowerName, rec.Quantity,
		rec.BorrowDate, rec.ReturnDate, string(rec.Status), rec.Notes, rec.CreatedBy,
	)
	return err
}

func (t *storeTx) UpdateLoan(ctx context.Context, rec *LoanRecord) error {
	const q = `
	UPDATE loan_records
	SET status = ?, actual_return_date = ?, notes = ?, verified_by = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q,
		string(rec.Status), rec.ActualReturnDate, rec.Notes, rec.VerifiedBy, rec.ID,
	)
	if err != nil {
		return err
	}
	aff, _ := res.RowsAffected()
	if aff != 1 {
		return ErrInternal("failed to update loan_records")
	}
	return nil
}

func (t *storeTx) DeleteLoan(ctx context.Context, id string) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM loan_records WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

// ---- Queries ----

const loanRowColumns = `
	l.id, l.item_id, l.item_name, l.borrower_name, l.quantity, l.borrow_date, l.return_date,
	l.actual_return_date, l.status, l.notes, l.created_by, l.verified_by, l.created_at, l.updated_at,
	i.name`

func scanLoanRow(scan func(dest ...any) error) (*loanRow, error) {
	var r loanRow
	err := scan(
		&r.ID, &r.ItemID, &r.ItemName, &r.BorrowerName, &r.Quantity, &r.BorrowDate, &r.ReturnDate,
		&r.ActualReturnDate, &r.Status, &r.Notes, &r.CreatedBy, &r.VerifiedBy, &r.CreatedAt, &r.UpdatedAt,
		&r.LiveItemName,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) GetLoan(ctx context.Context, id string) (*loanRow, error) {
	q := `SELECT` + loanRowColumns + `
	FROM loan_records l
	LEFT JOIN items i ON i.id = l.item_id
	WHERE l.id = ?`
	row, err := scanLoanRow(s.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("loan record not found")
		}
		return nil, err
	}
	return row, nil
}

func (s *Store) ListLoans(ctx context.Context, f LoanFilter, p Page) ([]loanRow, int64, error) {
	where, args := buildLoanFilter(f)

	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	q := fmt.Sprintf(`SELECT%s
	FROM loan_records l
	LEFT JOIN items i ON i.id = l.item_id
	%s
	ORDER BY l.created_at %s LIMIT ? OFFSET ?`, loanRowColumns, where, order)
	listArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, q, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []loanRow
	for rows.Next() {
		r, err := scanLoanRow(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	cq := `SELECT COUNT(*) FROM loan_records l ` + where
	if err := s.db.QueryRowContext(ctx, cq, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func buildLoanFilter(f LoanFilter) (string, []any) {
	sb := strings.Builder{}
	sb.WriteString(`WHERE 1=1`)
	args := []any{}
	if f.Status != nil {
		if *f.Status == StatusOverdue {
			// overdue is derived: still borrowed and past the due date
			sb.WriteString(` AND l.status = ? AND l.return_date < CURDATE()`)
			args = append(args, string(StatusBorrowed))
		} else {
			sb.WriteString(` AND l.status = ?`)
			args = append(args, string(*f.Status))
		}
	}
	if f.ItemID != nil {
		sb.WriteString(` AND l.item_id = ?`)
		args = append(args, *f.ItemID)
	}
	if f.BorrowerName != nil {
		sb.WriteString(` AND l.borrower_name LIKE ?`)
		args = append(args, "%"+*f.BorrowerName+"%")
	}
	return sb.String(), args
}
