package items

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const itemColumns = `id, name, category, stock, location, ` + "`condition`" + `, description, image_data, created_at, updated_at`

func scanItem(scan func(dest ...any) error) (*Item, error) {
	var it Item
	var desc sql.NullString
	err := scan(
		&it.ID, &it.Name, &it.Category, &it.Stock, &it.Location, &it.Condition,
		&desc, &it.ImageData, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	it.Description = desc.String
	return &it, nil
}

func (s *Store) Insert(ctx context.Context, it *Item) error {
	const q = `
	INSERT INTO items (id, name, category, stock, location, ` + "`condition`" + `, description, image_data, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`
	_, err := s.db.ExecContext(ctx, q,
		it.ID, it.Name, it.Category, it.Stock, it.Location, string(it.Condition), it.Description, it.ImageData,
	)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1062 {
			return ErrConflict("item already exists")
		}
		return err
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	q := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	it, err := scanItem(s.db.QueryRowContext(ctx, q, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound("item not found")
		}
		return nil, err
	}
	return it, nil
}

func (s *Store) List(ctx context.Context, search string, p Page) ([]Item, int64, error) {
	where := ""
	args := []any{}
	if search != "" {
		where = ` WHERE name LIKE ? OR category LIKE ? OR location LIKE ?`
		pat := "%" + search + "%"
		args = append(args, pat, pat, pat)
	}

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

	q := fmt.Sprintf(`SELECT %s FROM items%s ORDER BY created_at %s LIMIT ? OFFSET ?`, itemColumns, where, order)
	listArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, q, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) Update(ctx context.Context, id string, req UpdateItemRequest) (*Item, error) {
	sets := []string{}
	args := []any{}

	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *req.Category)
	}
	if req.Stock != nil {
		sets = append(sets, "stock = ?")
		args = append(args, *req.Stock)
	}
	if req.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *req.Location)
	}
	if req.Condition != nil {
		sets = append(sets, "`condition` = ?")
		args = append(args, string(*req.Condition))
	}
	if req.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *req.Description)
	}
	if req.ImageData != nil {
		sets = append(sets, "image_data = ?")
		args = append(args, *req.ImageData)
	}

	if len(sets) == 0 {
		return s.Get(ctx, id)
	}

	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	q := fmt.Sprintf(`UPDATE items SET %s WHERE id = ?`, strings.Join(sets, ", "))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return nil, err
	}
	// RowsAffected is 0 when the new values equal the old ones, so existence
	// is checked by the follow-up read.
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == 1451 {
			return false, ErrConflict("item is referenced by loan records")
		}
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (s *Store) BorrowedCount(ctx context.Context, id string) (int, error) {
	const q = `SELECT COUNT(*) FROM loan_records WHERE item_id = ? AND status = 'borrowed'`
	var n int
	if err := s.db.QueryRowContext(ctx, q, id).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
