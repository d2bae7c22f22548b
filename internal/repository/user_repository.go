package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/bucharest-discover/internal/database"
	"github.com/iliyamo/bucharest-discover/internal/model"
)

// UserRepo persists identities provisioned from the identity provider.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = "id, email, first_name, last_name, avatar_url, created_at, updated_at"

// Create inserts a user. A row with the same id yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?,?,?,?,?,?,?)",
		u.ID, strings.TrimSpace(u.Email), u.FirstName, u.LastName, u.AvatarURL,
		toMillis(u.CreatedAt), toMillis(u.UpdatedAt))
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return err
	}
	return nil
}

// GetByID fetches a user by identity key.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.User, error) {
	var (
		u                model.User
		created, updated int64
	)
	err := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.AvatarURL, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.CreatedAt = fromMillis(created)
	u.UpdatedAt = fromMillis(updated)
	return u, nil
}

// Exists reports whether a user with id is stored.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// UpdateProfile overwrites the mutable profile fields. It returns
// ErrNotFound when no user has the given id.
func (r *UserRepo) UpdateProfile(ctx context.Context, u model.User, now time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET email=?, first_name=?, last_name=?, avatar_url=?, updated_at=? WHERE id=?",
		strings.TrimSpace(u.Email), u.FirstName, u.LastName, u.AvatarURL, toMillis(now), u.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// MySQL reports 0 affected rows when values are unchanged, so
		// confirm absence before reporting it.
		ok, err := r.Exists(ctx, u.ID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
	}
	return nil
}
