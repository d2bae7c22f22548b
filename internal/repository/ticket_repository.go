package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/bucharest-discover/internal/database"
	"github.com/iliyamo/bucharest-discover/internal/model"
)

// TicketRepo provides access to the tickets table and to the capacity
// counters on events.  Tickets are unique per (user_id, event_id).
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *TicketRepo) DB() *sql.DB { return r.db }

// Exists reports whether the user already holds a ticket for the event.
func (r *TicketRepo) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM tickets WHERE user_id = ? AND event_id = ? LIMIT 1`,
		userID, eventID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ReserveCapacityTx increments current_capacity for an active event that
// still has room.  It returns false when the event is full (or inactive).
// The UPDATE takes the event row lock, serialising purchases per event
// until the transaction ends.
func (r *TicketRepo) ReserveCapacityTx(ctx context.Context, tx *sql.Tx, eventID string, now time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE events
		    SET current_capacity = current_capacity + 1, updated_at = ?
		  WHERE id = ? AND is_active = ?
		    AND (max_capacity IS NULL OR current_capacity < max_capacity)`,
		toMillis(now), eventID, true)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CreateTx inserts a ticket within tx.  A ticket for the same
// (user, event) yields ErrConflict; the caller must roll back.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t model.Ticket) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (id, user_id, event_id, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.UserID, t.EventID, toMillis(t.CreatedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

const ticketDetailQuery = `SELECT t.id, t.user_id, t.event_id, t.created_at, e.name, e.start_date
  FROM tickets t
  JOIN events e ON e.id = t.event_id`

// ListByUser returns the user's tickets with event details, newest first.
// When the user has no tickets an empty slice is returned.
func (r *TicketRepo) ListByUser(ctx context.Context, userID string) ([]model.TicketDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		ticketDetailQuery+` WHERE t.user_id = ? ORDER BY t.created_at DESC, t.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.TicketDetail, 0)
	for rows.Next() {
		d, err := scanTicketDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDForUser returns one ticket owned by userID.  Tickets of other
// users are reported as ErrNotFound.
func (r *TicketRepo) GetByIDForUser(ctx context.Context, ticketID, userID string) (model.TicketDetail, error) {
	row := r.db.QueryRowContext(ctx, ticketDetailQuery+` WHERE t.id = ? AND t.user_id = ?`, ticketID, userID)
	d, err := scanTicketDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TicketDetail{}, ErrNotFound
	}
	return d, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicketDetail(s rowScanner) (model.TicketDetail, error) {
	var (
		d              model.TicketDetail
		created, start int64
	)
	if err := s.Scan(&d.ID, &d.UserID, &d.EventID, &created, &d.EventName, &start); err != nil {
		return model.TicketDetail{}, err
	}
	d.CreatedAt = fromMillis(created)
	d.EventStartDate = fromMillis(start)
	return d, nil
}
