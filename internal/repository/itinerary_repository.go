package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bucharest-discover/internal/model"
)

// ItineraryRepo stores itineraries.  Rating columns are written only by
// ReviewRepo.
type ItineraryRepo struct {
	db *sql.DB
}

// NewItineraryRepo returns a new ItineraryRepo bound to the given database.
func NewItineraryRepo(db *sql.DB) *ItineraryRepo { return &ItineraryRepo{db: db} }

// Create inserts a new itinerary with a zero rating aggregate.
func (r *ItineraryRepo) Create(ctx context.Context, it model.Itinerary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO itineraries (id, name, description, user_id, is_public, total_days,
		                          average_rating, total_reviews, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		it.ID, it.Name, it.Description, it.UserID, it.IsPublic, it.TotalDays,
		toMillis(it.CreatedAt), toMillis(it.UpdatedAt))
	return err
}

const itineraryColumns = `id, name, description, user_id, is_public, total_days,
	average_rating, total_reviews, created_at, updated_at`

// GetByID returns an itinerary or ErrNotFound.
func (r *ItineraryRepo) GetByID(ctx context.Context, id string) (model.Itinerary, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+itineraryColumns+" FROM itineraries WHERE id = ?", id)
	it, err := scanItinerary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Itinerary{}, ErrNotFound
	}
	return it, err
}

// ListForUser returns the itineraries userID created or participates in,
// newest first.
func (r *ItineraryRepo) ListForUser(ctx context.Context, userID string) ([]model.Itinerary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+itineraryColumns+` FROM itineraries
		  WHERE user_id = ?
		     OR id IN (SELECT itinerary_id FROM itinerary_participants WHERE user_id = ?)
		  ORDER BY created_at DESC, id`, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Itinerary, 0)
	for rows.Next() {
		it, err := scanItinerary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanItinerary(s rowScanner) (model.Itinerary, error) {
	var (
		it               model.Itinerary
		created, updated int64
	)
	err := s.Scan(&it.ID, &it.Name, &it.Description, &it.UserID, &it.IsPublic, &it.TotalDays,
		&it.AverageRating, &it.TotalReviews, &created, &updated)
	if err != nil {
		return model.Itinerary{}, err
	}
	it.CreatedAt = fromMillis(created)
	it.UpdatedAt = fromMillis(updated)
	return it, nil
}
