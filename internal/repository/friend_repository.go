package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/bucharest-discover/internal/database"
	"github.com/iliyamo/bucharest-discover/internal/model"
)

// FriendRepo provides access to friend_requests and friendships.
//
// At most one pending request may exist per ordered (from, to) pair.  The
// guarantee lives in the pending_key column: it holds "from:to" while the
// request is pending and NULL afterwards, and carries a UNIQUE index.
// Resolving a request clears the key so a new request can be sent later.
type FriendRepo struct {
	db *sql.DB
}

// NewFriendRepo returns a new FriendRepo bound to the given database.
func NewFriendRepo(db *sql.DB) *FriendRepo { return &FriendRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *FriendRepo) DB() *sql.DB { return r.db }

// PendingKey returns the uniqueness key of a pending request.
func PendingKey(fromUserID, toUserID string) string {
	return fromUserID + ":" + toUserID
}

const friendRequestColumns = "id, from_user_id, to_user_id, status, created_at, updated_at"

// CreateRequest inserts a pending request.  A pending request for the
// same ordered pair yields ErrConflict.
func (r *FriendRepo) CreateRequest(ctx context.Context, req model.FriendRequest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO friend_requests (id, from_user_id, to_user_id, status, pending_key, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		req.ID, req.FromUserID, req.ToUserID, model.FriendRequestPending,
		PendingKey(req.FromUserID, req.ToUserID),
		toMillis(req.CreatedAt), toMillis(req.UpdatedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// HasPending reports whether a pending request exists from -> to.
func (r *FriendRepo) HasPending(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM friend_requests WHERE pending_key = ? LIMIT 1`,
		PendingKey(fromUserID, toUserID)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// GetRequest loads a request by id.
func (r *FriendRepo) GetRequest(ctx context.Context, id string) (model.FriendRequest, error) {
	var (
		fr               model.FriendRequest
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+friendRequestColumns+" FROM friend_requests WHERE id = ?", id).
		Scan(&fr.ID, &fr.FromUserID, &fr.ToUserID, &fr.Status, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FriendRequest{}, ErrNotFound
	}
	if err != nil {
		return model.FriendRequest{}, err
	}
	fr.CreatedAt = fromMillis(created)
	fr.UpdatedAt = fromMillis(updated)
	return fr, nil
}

// ResolveTx moves a pending request to status (accepted or rejected).
// The update is conditional on the row still being pending, so of two
// concurrent resolutions exactly one reports true.
func (r *FriendRepo) ResolveTx(ctx context.Context, tx *sql.Tx, id, status string, now time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE friend_requests SET status = ?, pending_key = NULL, updated_at = ?
		 WHERE id = ? AND status = ?`,
		status, toMillis(now), id, model.FriendRequestPending)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// CreateFriendshipTx inserts one directed edge.  An existing edge for the
// same (user, friend) yields ErrConflict; the transaction stays usable.
func (r *FriendRepo) CreateFriendshipTx(ctx context.Context, tx *sql.Tx, f model.Friendship) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO friendships (id, user_id, friend_id, created_at) VALUES (?, ?, ?, ?)`,
		f.ID, f.UserID, f.FriendID, toMillis(f.CreatedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// AreFriends reports whether the edge user -> friend exists.
func (r *FriendRepo) AreFriends(ctx context.Context, userID, friendID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM friendships WHERE user_id = ? AND friend_id = ? LIMIT 1`,
		userID, friendID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// ListRequests returns every request the user sent or received, in any
// status, newest first.
func (r *FriendRepo) ListRequests(ctx context.Context, userID string) ([]model.FriendRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+friendRequestColumns+` FROM friend_requests
		 WHERE from_user_id = ? OR to_user_id = ?
		 ORDER BY created_at DESC, id`,
		userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.FriendRequest, 0)
	for rows.Next() {
		var (
			fr               model.FriendRequest
			created, updated int64
		)
		if err := rows.Scan(&fr.ID, &fr.FromUserID, &fr.ToUserID, &fr.Status, &created, &updated); err != nil {
			return nil, err
		}
		fr.CreatedAt = fromMillis(created)
		fr.UpdatedAt = fromMillis(updated)
		out = append(out, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListFriends returns the edges owned by userID, oldest first.
func (r *FriendRepo) ListFriends(ctx context.Context, userID string) ([]model.Friendship, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, friend_id, created_at FROM friendships
		 WHERE user_id = ? ORDER BY created_at, friend_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Friendship, 0)
	for rows.Next() {
		var (
			f       model.Friendship
			created int64
		)
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendID, &created); err != nil {
			return nil, err
		}
		f.CreatedAt = fromMillis(created)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
