package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bucketlist/internal/models"

	"github.com/google/uuid"
)

type ListSQLite struct {
	db *sql.DB
}

func NewListSQLite(db *sql.DB) *ListSQLite { return &ListSQLite{db: db} }

var _ Lists = (*ListSQLite)(nil)

const (
	insertListItemSQL     = `INSERT INTO list_items (id, owner, title, done, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`
	updateListItemDoneSQL = `UPDATE list_items SET done = ? WHERE id = ?`
	deleteListItemSQL     = `DELETE FROM list_items WHERE id = ?`
)

// ListByOwner returns all items owned by owner, in insertion order (rowid).
// A non-nil done narrows the result to that completion state.
func (r *ListSQLite) ListByOwner(ctx context.Context, owner string, done *bool) ([]models.ListItem, error) {
	q := `SELECT id, owner, title, done, created_at, updated_at FROM list_items WHERE owner = ?`
	args := []any{owner}
	if done != nil {
		q += " AND done = ?"
		args = append(args, *done)
	}
	q += " ORDER BY rowid ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select list items of %q: %w", owner, err)
	}
	defer rows.Close()

	out := make([]models.ListItem, 0, 16)
	for rows.Next() {
		var it models.ListItem
		if err := rows.Scan(&it.ID, &it.Owner, &it.Title, &it.Done, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan list item: %w", err)
		}
		it.CreatedAt = it.CreatedAt.UTC()
		it.UpdatedAt = it.UpdatedAt.UTC()
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate list items of %q: %w", owner, err)
	}
	return out, nil
}

// Create inserts a new item. If ID or timestamps are empty, they're set.
func (r *ListSQLite) Create(ctx context.Context, item models.ListItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	} else {
		item.CreatedAt = item.CreatedAt.UTC()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	} else {
		item.UpdatedAt = item.UpdatedAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertListItemSQL,
		item.ID, item.Owner, item.Title, item.Done, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert list item for %q: %w", item.Owner, err)
	}
	return nil
}

// SetDone flips only the done flag; the updated_at stamp is owned by Update.
func (r *ListSQLite) SetDone(ctx context.Context, id string, done bool) error {
	res, err := r.db.ExecContext(ctx, updateListItemDoneSQL, done, id)
	if err != nil {
		return fmt.Errorf("set done on list item %q: %w", id, err)
	}
	return requireAffected(res, "set done on list item", id)
}

// Update applies the non-nil fields and stamps updated_at.
func (r *ListSQLite) Update(ctx context.Context, id string, upd models.ListItemUpdate) error {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Done != nil {
		sets = append(sets, "done = ?")
		args = append(args, *upd.Done)
	}
	args = append(args, id)

	q := "UPDATE list_items SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update list item %q: %w", id, err)
	}
	return requireAffected(res, "update list item", id)
}

func (r *ListSQLite) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteListItemSQL, id)
	if err != nil {
		return fmt.Errorf("delete list item %q: %w", id, err)
	}
	return requireAffected(res, "delete list item", id)
}

// requireAffected converts a zero-row result into ErrNotFound.
func requireAffected(res sql.Result, op, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for %s %q: %w", op, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %q: %w", op, id, ErrNotFound)
	}
	return nil
}
