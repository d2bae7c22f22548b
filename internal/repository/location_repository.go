package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/bucharest-discover/internal/model"
)

// LocationRepo serves location browsing and lookups.
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo returns a new LocationRepo bound to the given database.
func NewLocationRepo(db *sql.DB) *LocationRepo { return &LocationRepo{db: db} }

// LocationFilter narrows ListActive.
type LocationFilter struct {
	CategoryID string
	Search     string // substring of name or description
	Limit      int
	Offset     int
}

const locationColumns = `id, name, description, address, latitude, longitude, category_id,
	price_range, average_rating, total_reviews, is_active, created_at, updated_at`

// Create inserts a location with a zero rating aggregate.
func (r *LocationRepo) Create(ctx context.Context, l model.Location) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO locations (id, name, description, address, latitude, longitude, category_id,
		                        price_range, average_rating, total_reviews, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?, ?)`,
		l.ID, l.Name, l.Description, l.Address, l.Latitude, l.Longitude, nullString(l.CategoryID),
		l.PriceRange, l.IsActive, toMillis(l.CreatedAt), toMillis(l.UpdatedAt))
	return err
}

// GetByID returns a location or ErrNotFound.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (model.Location, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+locationColumns+" FROM locations WHERE id = ?", id)
	l, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Location{}, ErrNotFound
	}
	return l, err
}

func (f LocationFilter) where() (string, []any) {
	var (
		where = []string{"is_active = ?"}
		args  = []any{true}
	)
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Search != "" {
		pattern := "%" + likeEscaper.Replace(f.Search) + "%"
		where = append(where, "(name LIKE ? ESCAPE '!' OR description LIKE ? ESCAPE '!')")
		args = append(args, pattern, pattern)
	}
	return strings.Join(where, " AND "), args
}

// likeEscaper quotes LIKE wildcards with '!', an escape character both
// MySQL and SQLite accept without string-literal quoting differences.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ListActive returns active locations, best rated first.
func (r *LocationRepo) ListActive(ctx context.Context, f LocationFilter) ([]model.Location, error) {
	where, args := f.where()
	args = append(args, f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+locationColumns+" FROM locations WHERE "+where+
			" ORDER BY average_rating DESC, name, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActive counts the locations ListActive would page through.
func (r *LocationRepo) CountActive(ctx context.Context, f LocationFilter) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM locations WHERE "+where, args...).Scan(&n)
	return n, err
}

func scanLocation(s rowScanner) (model.Location, error) {
	var (
		l                model.Location
		categoryID       sql.NullString
		created, updated int64
	)
	err := s.Scan(&l.ID, &l.Name, &l.Description, &l.Address, &l.Latitude, &l.Longitude, &categoryID,
		&l.PriceRange, &l.AverageRating, &l.TotalReviews, &l.IsActive, &created, &updated)
	if err != nil {
		return model.Location{}, err
	}
	l.CategoryID = scanNullString(categoryID)
	l.CreatedAt = fromMillis(created)
	l.UpdatedAt = fromMillis(updated)
	return l, nil
}
