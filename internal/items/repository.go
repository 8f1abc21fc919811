package items

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasklane/tasklane/internal/platform/db"
	"github.com/tasklane/tasklane/internal/platform/httpx"
)

// Repository defines persistence operations for items. Every read and write
// is restricted to the owning user; an id owned by someone else behaves
// exactly like an absent one.
type Repository interface {
	ListByOwner(ctx context.Context, req ListItemsRequest) ([]Item, int, error)
	GetOwned(ctx context.Context, ownerID, id int64) (*Item, error)
	Create(ctx context.Context, item Item) (*Item, error)
	Update(ctx context.Context, ownerID, id int64, updates map[string]any) error
	Delete(ctx context.Context, ownerID, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const itemColumns = `id, name, description, done, user_id, created_at, updated_at`

func (r *repository) ListByOwner(ctx context.Context, req ListItemsRequest) ([]Item, int, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE user_id = $1 ORDER BY id`
	args := []any{req.OwnerID}
	if req.Page > 0 {
		per := req.Per
		if per <= 0 {
			per = 20
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, per, (req.Page-1)*per)
	}

	var result []Item
	var total int
	// Count and page must read the same snapshot or the total can disagree
	// with the returned rows under concurrent writes.
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE user_id = $1`, req.OwnerID).Scan(&total); err != nil {
			return err
		}
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var item Item
			if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Done, &item.UserID, &item.CreatedAt, &item.UpdatedAt); err != nil {
				return err
			}
			result = append(result, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *repository) GetOwned(ctx context.Context, ownerID, id int64) (*Item, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1 AND user_id = $2`, id, ownerID)
	var item Item
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Done, &item.UserID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httpx.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) Create(ctx context.Context, item Item) (*Item, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO items (name, description, done, user_id) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		item.Name, item.Description, item.Done, item.UserID,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) Update(ctx context.Context, ownerID, id int64, updates map[string]any) error {
	query := "UPDATE items SET updated_at = NOW()"
	var args []any
	argPos := 1

	for _, column := range []string{"name", "description", "done"} {
		if value, ok := updates[column]; ok {
			query += fmt.Sprintf(", %s = $%d", column, argPos)
			args = append(args, value)
			argPos++
		}
	}

	query += fmt.Sprintf(" WHERE id = $%d AND user_id = $%d", argPos, argPos+1)
	args = append(args, id, ownerID)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, ownerID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM items WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

var _ Repository = (*repository)(nil)
