package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bucharest-discover/internal/model"
	"github.com/iliyamo/bucharest-discover/internal/repository"
)

// ReviewInput is one rating on a subject.
type ReviewInput struct {
	SubjectKind string
	SubjectID   string
	UserID      string
	Rating      int
	Title       string
	Content     string
}

// RatingService records reviews and keeps each subject's stored average
// and count equal to the mean and size of its review set.
type RatingService struct {
	users   *repository.UserRepo
	reviews *repository.ReviewRepo
	now     func() time.Time
}

func NewRatingService(users *repository.UserRepo, reviews *repository.ReviewRepo) *RatingService {
	return &RatingService{users: users, reviews: reviews, now: time.Now}
}

// AddReview inserts the review and recomputes the subject aggregate from
// all of its reviews. The subject row is locked first, so concurrent
// reviews of one subject recompute one after the other and none is lost.
func (s *RatingService) AddReview(ctx context.Context, in ReviewInput) (model.Review, model.RatingAggregate, error) {
	if !repository.IsReviewableKind(in.SubjectKind) {
		return model.Review{}, model.RatingAggregate{}, invalid("subjectKind must be location, event or itinerary")
	}
	if in.SubjectID == "" {
		return model.Review{}, model.RatingAggregate{}, invalid("subjectId is required")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, model.RatingAggregate{}, invalid("rating must be between 1 and 5")
	}
	if err := requireUser(ctx, s.users, in.UserID, "user"); err != nil {
		return model.Review{}, model.RatingAggregate{}, err
	}

	now := s.now().UTC()
	rv := model.Review{
		ID:          uuid.NewString(),
		SubjectKind: in.SubjectKind,
		SubjectID:   in.SubjectID,
		UserID:      in.UserID,
		Rating:      in.Rating,
		Title:       strings.TrimSpace(in.Title),
		Content:     strings.TrimSpace(in.Content),
		CreatedAt:   now,
	}

	tx, err := s.reviews.DB().BeginTx(ctx, nil)
	if err != nil {
		return model.Review{}, model.RatingAggregate{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	found, err := s.reviews.LockSubjectTx(ctx, tx, in.SubjectKind, in.SubjectID, now)
	if err != nil {
		return model.Review{}, model.RatingAggregate{}, err
	}
	if !found {
		return model.Review{}, model.RatingAggregate{}, notFound(in.SubjectKind + " not found")
	}
	if err := s.reviews.CreateTx(ctx, tx, rv); err != nil {
		return model.Review{}, model.RatingAggregate{}, err
	}
	agg, err := s.reviews.RecomputeAggregateTx(ctx, tx, in.SubjectKind, in.SubjectID)
	if err != nil {
		return model.Review{}, model.RatingAggregate{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Review{}, model.RatingAggregate{}, err
	}
	committed = true
	return rv, agg, nil
}

// ListReviews returns a subject's reviews, newest first, together with
// its stored aggregate.
func (s *RatingService) ListReviews(ctx context.Context, kind, subjectID string) ([]model.Review, model.RatingAggregate, error) {
	if !repository.IsReviewableKind(kind) {
		return nil, model.RatingAggregate{}, invalid("subjectKind must be location, event or itinerary")
	}
	if subjectID == "" {
		return nil, model.RatingAggregate{}, invalid("subjectId is required")
	}
	agg, err := s.reviews.GetAggregate(ctx, kind, subjectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, model.RatingAggregate{}, notFound(kind + " not found")
	}
	if err != nil {
		return nil, model.RatingAggregate{}, err
	}
	list, err := s.reviews.ListBySubject(ctx, kind, subjectID)
	if err != nil {
		return nil, model.RatingAggregate{}, err
	}
	return list, agg, nil
}
