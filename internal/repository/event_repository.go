package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/bucharest-discover/internal/model"
)

// EventRepo serves event browsing and lookups.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// EventFilter narrows ListActive.  Zero values mean "no filter".
type EventFilter struct {
	CategoryID string
	LocationID string
	Limit      int
	Offset     int
}

const eventColumns = `id, name, description, location_id, category_id, start_date, end_date,
	price_cents, currency, max_capacity, current_capacity, organizer, is_active,
	average_rating, total_reviews, created_at, updated_at`

// Create inserts an event.  Capacity and rating counters start at zero.
func (r *EventRepo) Create(ctx context.Context, e model.Event) error {
	currency := e.Currency
	if currency == "" {
		currency = "EUR"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO events (id, name, description, location_id, category_id, start_date, end_date,
		                     price_cents, currency, max_capacity, current_capacity, organizer, is_active,
		                     average_rating, total_reviews, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, 0, 0, ?, ?)`,
		e.ID, e.Name, e.Description, nullString(e.LocationID), nullString(e.CategoryID),
		toMillis(e.StartDate), toMillis(e.EndDate), e.PriceCents, currency,
		nullInt(e.MaxCapacity), e.Organizer, e.IsActive,
		toMillis(e.CreatedAt), toMillis(e.UpdatedAt))
	return err
}

// GetByID returns an event or ErrNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id string) (model.Event, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	return e, err
}

func (f EventFilter) where() (string, []any) {
	var (
		where = []string{"is_active = ?"}
		args  = []any{true}
	)
	if f.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.LocationID != "" {
		where = append(where, "location_id = ?")
		args = append(args, f.LocationID)
	}
	return strings.Join(where, " AND "), args
}

// ListActive returns active events ordered by start date.
func (r *EventRepo) ListActive(ctx context.Context, f EventFilter) ([]model.Event, error) {
	where, args := f.where()
	args = append(args, f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE "+where+
			" ORDER BY start_date, id LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountActive counts the events ListActive would page through.
func (r *EventRepo) CountActive(ctx context.Context, f EventFilter) (int, error) {
	where, args := f.where()
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events WHERE "+where, args...).Scan(&n)
	return n, err
}

func scanEvent(s rowScanner) (model.Event, error) {
	var (
		e                            model.Event
		locationID, categoryID       sql.NullString
		maxCapacity                  sql.NullInt64
		start, end, created, updated int64
	)
	err := s.Scan(&e.ID, &e.Name, &e.Description, &locationID, &categoryID, &start, &end,
		&e.PriceCents, &e.Currency, &maxCapacity, &e.CurrentCapacity, &e.Organizer, &e.IsActive,
		&e.AverageRating, &e.TotalReviews, &created, &updated)
	if err != nil {
		return model.Event{}, err
	}
	e.LocationID = scanNullString(locationID)
	e.CategoryID = scanNullString(categoryID)
	if maxCapacity.Valid {
		v := int(maxCapacity.Int64)
		e.MaxCapacity = &v
	}
	e.StartDate = fromMillis(start)
	e.EndDate = fromMillis(end)
	e.CreatedAt = fromMillis(created)
	e.UpdatedAt = fromMillis(updated)
	return e, nil
}
