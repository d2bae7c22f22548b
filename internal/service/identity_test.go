package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvisionIsIdempotent(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)

	first, err := env.identity.Provision(env.ctx, ProvisionInput{ID: "user_1", Email: "ana@example.ro", FirstName: "Ana"})
	require.NoError(t, err)

	// A redelivered event with different payload leaves the stored row alone.
	again, err := env.identity.Provision(env.ctx, ProvisionInput{ID: "user_1", Email: "other@example.ro", FirstName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, first.Email, again.Email)
	assert.Equal(t, "Ana", again.FirstName)

	var n int
	require.NoError(t, env.db.QueryRowContext(env.ctx, "SELECT COUNT(*) FROM users").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestProvisionConcurrentDeliveries(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	errs := race(8, func() error {
		_, err := env.identity.Provision(env.ctx, ProvisionInput{ID: "user_dup", Email: "dup@example.ro"})
		return err
	})
	assert.Equal(t, 8, countNil(errs))

	u, err := env.identity.GetByID(env.ctx, "user_dup")
	require.NoError(t, err)
	assert.Equal(t, "dup@example.ro", u.Email)
}

func TestProvisionValidates(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	_, err := env.identity.Provision(env.ctx, ProvisionInput{Email: "x@example.ro"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = env.identity.Provision(env.ctx, ProvisionInput{ID: "user_x", Email: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSyncProfile(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "user_1")

	u, err := env.identity.SyncProfile(env.ctx, ProvisionInput{
		ID: "user_1", Email: "new@example.ro", FirstName: "Ana", LastName: "Popescu", AvatarURL: "https://img/1.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.ro", u.Email)
	assert.Equal(t, "Ana Popescu", u.DisplayName())
	assert.True(t, u.UpdatedAt.After(u.CreatedAt))

	// An update overtaking the creation event provisions the user.
	u, err = env.identity.SyncProfile(env.ctx, ProvisionInput{ID: "user_2", Email: "b@example.ro"})
	require.NoError(t, err)
	assert.Equal(t, "user_2", u.ID)
}

func TestGetByIDUnknown(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	_, err := env.identity.GetByID(env.ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
