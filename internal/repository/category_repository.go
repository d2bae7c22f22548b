package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/bucharest-discover/internal/model"
)

// CategoryRepo stores the categories shared by locations and events.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo { return &CategoryRepo{db: db} }

// Create inserts a category.
func (r *CategoryRepo) Create(ctx context.Context, c model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, icon, color, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.Description, c.Icon, c.Color, toMillis(c.CreatedAt))
	return err
}

// ListAll returns every category ordered by name.
func (r *CategoryRepo) ListAll(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, icon, color, created_at FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Category, 0)
	for rows.Next() {
		var (
			c       model.Category
			created int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = fromMillis(created)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
