package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/bucharest-discover/internal/model"
)

// subjectTables maps a reviewable kind to the table holding its
// average_rating and total_reviews columns.  Only these names are ever
// concatenated into SQL.
var subjectTables = map[string]string{
	model.SubjectLocation:  "locations",
	model.SubjectEvent:     "events",
	model.SubjectItinerary: "itineraries",
}

// IsReviewableKind reports whether kind names a reviewable subject.
func IsReviewableKind(kind string) bool {
	_, ok := subjectTables[kind]
	return ok
}

func subjectTable(kind string) (string, error) {
	t, ok := subjectTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown subject kind %q", kind)
	}
	return t, nil
}

// ReviewRepo stores reviews and maintains the aggregate on the subject.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions.
func (r *ReviewRepo) DB() *sql.DB { return r.db }

// LockSubjectTx touches the subject row so the transaction holds its
// write lock before reading the review set.  Two reviews on the same
// subject therefore recompute one after the other.  It returns false
// when the subject does not exist.
func (r *ReviewRepo) LockSubjectTx(ctx context.Context, tx *sql.Tx, kind, subjectID string, now time.Time) (bool, error) {
	table, err := subjectTable(kind)
	if err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, "UPDATE "+table+" SET updated_at = ? WHERE id = ?", toMillis(now), subjectID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}
	// MySQL reports 0 affected rows when updated_at already equals now.
	var one int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", subjectID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// CreateTx inserts a review within tx.
func (r *ReviewRepo) CreateTx(ctx context.Context, tx *sql.Tx, rv model.Review) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO reviews (id, subject_kind, subject_id, user_id, rating, title, content, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rv.ID, rv.SubjectKind, rv.SubjectID, rv.UserID, rv.Rating, rv.Title, rv.Content, toMillis(rv.CreatedAt))
	return err
}

// RecomputeAggregateTx recomputes the subject's mean rating and review
// count from the full review set and stores both on the subject row.
func (r *ReviewRepo) RecomputeAggregateTx(ctx context.Context, tx *sql.Tx, kind, subjectID string) (model.RatingAggregate, error) {
	table, err := subjectTable(kind)
	if err != nil {
		return model.RatingAggregate{}, err
	}
	var sum, count int64
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(rating), 0), COUNT(*) FROM reviews WHERE subject_kind = ? AND subject_id = ?`,
		kind, subjectID).Scan(&sum, &count)
	if err != nil {
		return model.RatingAggregate{}, err
	}
	agg := model.RatingAggregate{Count: int(count)}
	if count > 0 {
		agg.Average = float64(sum) / float64(count)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE "+table+" SET average_rating = ?, total_reviews = ? WHERE id = ?",
		agg.Average, agg.Count, subjectID); err != nil {
		return model.RatingAggregate{}, err
	}
	return agg, nil
}

// GetAggregate reads the stored aggregate of a subject.
func (r *ReviewRepo) GetAggregate(ctx context.Context, kind, subjectID string) (model.RatingAggregate, error) {
	table, err := subjectTable(kind)
	if err != nil {
		return model.RatingAggregate{}, err
	}
	var agg model.RatingAggregate
	err = r.db.QueryRowContext(ctx,
		"SELECT average_rating, total_reviews FROM "+table+" WHERE id = ?", subjectID).
		Scan(&agg.Average, &agg.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RatingAggregate{}, ErrNotFound
	}
	return agg, err
}

// ListBySubject returns the subject's reviews, newest first.
func (r *ReviewRepo) ListBySubject(ctx context.Context, kind, subjectID string) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subject_kind, subject_id, user_id, rating, title, content, created_at
		   FROM reviews WHERE subject_kind = ? AND subject_id = ?
		  ORDER BY created_at DESC, id`, kind, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Review, 0)
	for rows.Next() {
		var (
			rv      model.Review
			created int64
		)
		if err := rows.Scan(&rv.ID, &rv.SubjectKind, &rv.SubjectID, &rv.UserID, &rv.Rating,
			&rv.Title, &rv.Content, &created); err != nil {
			return nil, err
		}
		rv.CreatedAt = fromMillis(created)
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
