package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/bucharest-discover/internal/database"
	"github.com/iliyamo/bucharest-discover/internal/model"
)

// ParticipantRepo provides access to itinerary_participants.  The table
// carries UNIQUE(itinerary_id, user_id); Create relies on it so that two
// concurrent joins of the same user cannot both succeed.
type ParticipantRepo struct {
	db *sql.DB
}

// NewParticipantRepo returns a new ParticipantRepo bound to the given database.
func NewParticipantRepo(db *sql.DB) *ParticipantRepo { return &ParticipantRepo{db: db} }

// Create inserts a participant row, returning ErrConflict when the user
// already belongs to the itinerary.
func (r *ParticipantRepo) Create(ctx context.Context, p model.ItineraryParticipant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO itinerary_participants (id, itinerary_id, user_id, role, invited_by, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.ItineraryID, p.UserID, p.Role, nullString(p.InvitedBy), toMillis(p.JoinedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// Exists reports whether userID participates in itineraryID.
func (r *ParticipantRepo) Exists(ctx context.Context, itineraryID, userID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM itinerary_participants WHERE itinerary_id = ? AND user_id = ? LIMIT 1`,
		itineraryID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Delete removes the row for the pair and returns the number of rows
// removed (0 or 1).
func (r *ParticipantRepo) Delete(ctx context.Context, itineraryID, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM itinerary_participants WHERE itinerary_id = ? AND user_id = ?`,
		itineraryID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByItinerary returns the current participants ordered by join time.
func (r *ParticipantRepo) ListByItinerary(ctx context.Context, itineraryID string) ([]model.ItineraryParticipant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, itinerary_id, user_id, role, invited_by, joined_at
		   FROM itinerary_participants
		  WHERE itinerary_id = ?
		  ORDER BY joined_at, id`, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ItineraryParticipant, 0)
	for rows.Next() {
		var (
			p         model.ItineraryParticipant
			invitedBy sql.NullString
			joined    int64
		)
		if err := rows.Scan(&p.ID, &p.ItineraryID, &p.UserID, &p.Role, &invitedBy, &joined); err != nil {
			return nil, err
		}
		p.InvitedBy = scanNullString(invitedBy)
		p.JoinedAt = fromMillis(joined)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
