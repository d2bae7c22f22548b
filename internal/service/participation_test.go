package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bucharest-discover/internal/model"
)

func newItinerary(t *testing.T, env *testEnv, owner string) model.Itinerary {
	t.Helper()
	it, err := env.participation.CreateItinerary(env.ctx, owner, ItineraryInput{Name: "Old Town weekend", TotalDays: 2})
	require.NoError(t, err)
	return it
}

func TestInviteJoinLeave(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "owner")
	env.user(t, "guest")
	it := newItinerary(t, env, "owner")

	p, err := env.participation.Invite(env.ctx, it.ID, "owner", "guest")
	require.NoError(t, err)
	assert.Equal(t, "owner", p.InvitedBy)
	assert.Equal(t, model.ParticipantRoleParticipant, p.Role)

	_, err = env.participation.Invite(env.ctx, it.ID, "owner", "guest")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = env.participation.Join(env.ctx, it.ID, "guest")
	assert.ErrorIs(t, err, ErrAlreadyMember)

	removed, err := env.participation.Leave(env.ctx, it.ID, "guest")
	require.NoError(t, err)
	assert.True(t, removed)

	p, err = env.participation.Join(env.ctx, it.ID, "guest")
	require.NoError(t, err)
	assert.Empty(t, p.InvitedBy)

	list, err := env.participation.ListParticipants(env.ctx, it.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "guest", list[0].UserID)
}

func TestLeaveWhenAbsentSucceeds(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "owner")
	it := newItinerary(t, env, "owner")

	removed, err := env.participation.Leave(env.ctx, it.ID, "stranger")
	require.NoError(t, err)
	assert.False(t, removed)

	_, err = env.participation.Leave(env.ctx, "", "stranger")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInviterMustBelong(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "owner")
	env.user(t, "member")
	env.user(t, "outsider")
	env.user(t, "friend")
	it := newItinerary(t, env, "owner")

	_, err := env.participation.Invite(env.ctx, it.ID, "outsider", "friend")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.participation.Invite(env.ctx, it.ID, "owner", "member")
	require.NoError(t, err)
	_, err = env.participation.Invite(env.ctx, it.ID, "member", "friend")
	assert.NoError(t, err)
}

func TestInviteUnknowns(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "owner")
	it := newItinerary(t, env, "owner")

	_, err := env.participation.Invite(env.ctx, "missing", "owner", "owner")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.participation.Invite(env.ctx, it.ID, "owner", "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.participation.Join(env.ctx, it.ID, "owner")
	assert.ErrorIs(t, err, ErrAlreadyMember)
	_, err = env.participation.ListParticipants(env.ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentJoinsYieldOneRow(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "owner")
	env.user(t, "guest")
	it := newItinerary(t, env, "owner")

	errs := race(6, func() error {
		_, err := env.participation.Join(env.ctx, it.ID, "guest")
		return err
	})
	assert.Equal(t, 1, countNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrAlreadyMember)
		}
	}
	list, err := env.participation.ListParticipants(env.ctx, it.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateItineraryValidates(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "owner")

	_, err := env.participation.CreateItinerary(env.ctx, "owner", ItineraryInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.participation.CreateItinerary(env.ctx, "owner", ItineraryInput{Name: "x", TotalDays: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)

	it, err := env.participation.CreateItinerary(env.ctx, "owner", ItineraryInput{Name: "Day trip"})
	require.NoError(t, err)
	assert.Equal(t, 1, it.TotalDays)

	got, err := env.participation.GetItinerary(env.ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day trip", got.Name)
	assert.Equal(t, "owner", got.UserID)
}

func TestListItinerariesCreatedAndJoined(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "owner")
	env.user(t, "guest")
	first := newItinerary(t, env, "owner")
	second := newItinerary(t, env, "owner")
	mine := newItinerary(t, env, "guest")

	_, err := env.participation.Join(env.ctx, first.ID, "guest")
	require.NoError(t, err)

	list, err := env.participation.ListItineraries(env.ctx, "guest")
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Newest first; second is neither created nor joined by guest.
	assert.Equal(t, mine.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.NotEqual(t, second.ID, list[1].ID)

	list, err = env.participation.ListItineraries(env.ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	removed, err := env.participation.Leave(env.ctx, first.ID, "guest")
	require.NoError(t, err)
	require.True(t, removed)
	list, err = env.participation.ListItineraries(env.ctx, "guest")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ID)

	_, err = env.participation.ListItineraries(env.ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
