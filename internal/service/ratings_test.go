package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bucharest-discover/internal/model"
)

func TestLocationAverageRecomputed(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "r")
	loc := env.location(t)

	var agg model.RatingAggregate
	for _, rating := range []int{5, 3, 4} {
		var err error
		_, agg, err = env.ratings.AddReview(env.ctx, ReviewInput{
			SubjectKind: model.SubjectLocation, SubjectID: loc.ID, UserID: "r", Rating: rating,
		})
		require.NoError(t, err)
	}
	assert.InDelta(t, 4.0, agg.Average, 1e-9)
	assert.Equal(t, 3, agg.Count)

	_, agg, err := env.ratings.AddReview(env.ctx, ReviewInput{
		SubjectKind: model.SubjectLocation, SubjectID: loc.ID, UserID: "r", Rating: 2, Content: "crowded",
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, agg.Average, 1e-9)
	assert.Equal(t, 4, agg.Count)

	stored, err := env.repo.locations.GetByID(env.ctx, loc.ID)
	require.NoError(t, err)
	assert.InDelta(t, 3.5, stored.AverageRating, 1e-9)
	assert.Equal(t, 4, stored.TotalReviews)
}

func TestEventAndItineraryReviewsAggregate(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "r")
	ev := env.event(t, nil)
	it := newItinerary(t, env, "r")

	_, _, err := env.ratings.AddReview(env.ctx, ReviewInput{SubjectKind: model.SubjectEvent, SubjectID: ev.ID, UserID: "r", Rating: 1})
	require.NoError(t, err)
	_, _, err = env.ratings.AddReview(env.ctx, ReviewInput{SubjectKind: model.SubjectItinerary, SubjectID: it.ID, UserID: "r", Rating: 5})
	require.NoError(t, err)
	_, _, err = env.ratings.AddReview(env.ctx, ReviewInput{SubjectKind: model.SubjectItinerary, SubjectID: it.ID, UserID: "r", Rating: 4})
	require.NoError(t, err)

	storedEv, err := env.repo.events.GetByID(env.ctx, ev.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, storedEv.AverageRating, 1e-9)
	assert.Equal(t, 1, storedEv.TotalReviews)

	storedIt, err := env.participation.GetItinerary(env.ctx, it.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, storedIt.AverageRating, 1e-9)
	assert.Equal(t, 2, storedIt.TotalReviews)
}

func TestAddReviewValidates(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "r")
	loc := env.location(t)

	cases := []ReviewInput{
		{SubjectKind: "restaurant", SubjectID: loc.ID, UserID: "r", Rating: 3},
		{SubjectKind: model.SubjectLocation, SubjectID: loc.ID, UserID: "r", Rating: 0},
		{SubjectKind: model.SubjectLocation, SubjectID: loc.ID, UserID: "r", Rating: 6},
		{SubjectKind: model.SubjectLocation, UserID: "r", Rating: 3},
	}
	for _, in := range cases {
		_, _, err := env.ratings.AddReview(env.ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput, "%+v", in)
	}

	_, _, err := env.ratings.AddReview(env.ctx, ReviewInput{SubjectKind: model.SubjectLocation, SubjectID: "missing", UserID: "r", Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)

	var n int
	require.NoError(t, env.db.QueryRowContext(env.ctx, "SELECT COUNT(*) FROM reviews").Scan(&n))
	assert.Zero(t, n)
}

func TestConcurrentReviewsLoseNothing(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "r")
	loc := env.location(t)

	errs := race(10, func() error {
		_, _, err := env.ratings.AddReview(env.ctx, ReviewInput{
			SubjectKind: model.SubjectLocation, SubjectID: loc.ID, UserID: "r", Rating: 4,
		})
		return err
	})
	require.Equal(t, 10, countNil(errs))

	reviews, agg, err := env.ratings.ListReviews(env.ctx, model.SubjectLocation, loc.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 10)
	assert.Equal(t, 10, agg.Count)
	assert.InDelta(t, 4.0, agg.Average, 1e-9)
}

func TestListReviewsUnknownSubject(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	_, _, err := env.ratings.ListReviews(env.ctx, model.SubjectEvent, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = env.ratings.ListReviews(env.ctx, "museum", "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
