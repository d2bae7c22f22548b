package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseOncePerEvent(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "u1")
	ev := env.event(t, nil)

	t1, err := env.ticketing.Purchase(env.ctx, "u1", ev.ID)
	require.NoError(t, err)

	_, err = env.ticketing.Purchase(env.ctx, "u1", ev.ID)
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, ErrAlreadyPurchased)

	list, err := env.ticketing.ListForUser(env.ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, t1.ID, list[0].ID)
	assert.Equal(t, ev.Name, list[0].EventName)

	stored, err := env.repo.events.GetByID(env.ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentCapacity)

	require.Len(t, env.published.events, 1)
	assert.Equal(t, t1.ID, env.published.events[0].TicketID)
	assert.Nil(t, env.published.events[0].RemainingSeats)
}

func TestPurchaseEnforcesCapacity(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "u1")
	env.user(t, "u2")
	env.user(t, "u3")
	ev := env.event(t, intPtr(2))

	_, err := env.ticketing.Purchase(env.ctx, "u1", ev.ID)
	require.NoError(t, err)
	_, err = env.ticketing.Purchase(env.ctx, "u2", ev.ID)
	require.NoError(t, err)
	_, err = env.ticketing.Purchase(env.ctx, "u3", ev.ID)
	assert.ErrorIs(t, err, ErrSoldOut)
	assert.ErrorIs(t, err, ErrConflict)

	require.Len(t, env.published.events, 2)
	require.NotNil(t, env.published.events[1].RemainingSeats)
	assert.Equal(t, 0, *env.published.events[1].RemainingSeats)
}

func TestConcurrentPurchasesYieldOneTicket(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "u1")
	ev := env.event(t, intPtr(10))

	errs := race(6, func() error {
		_, err := env.ticketing.Purchase(env.ctx, "u1", ev.ID)
		return err
	})
	assert.Equal(t, 1, countNil(errs))

	stored, err := env.repo.events.GetByID(env.ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentCapacity, "failed repurchases must not consume seats")
}

func TestConcurrentPurchasesRespectCapacity(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	ids := []string{"p1", "p2", "p3", "p4", "p5"}
	for _, id := range ids {
		env.user(t, id)
	}
	ev := env.event(t, intPtr(3))

	errs := make([]error, len(ids))
	done := make(chan int)
	for i, id := range ids {
		go func(i int, id string) {
			_, errs[i] = env.ticketing.Purchase(env.ctx, id, ev.ID)
			done <- i
		}(i, id)
	}
	for range ids {
		<-done
	}
	assert.Equal(t, 3, countNil(errs))
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, ErrSoldOut)
		}
	}
}

func TestPurchaseUnknowns(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "u1")
	ev := env.event(t, nil)

	_, err := env.ticketing.Purchase(env.ctx, "u1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.ticketing.Purchase(env.ctx, "ghost", ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.ticketing.Purchase(env.ctx, "u1", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPurchaseSurvivesBrokerFailure(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "u1")
	ev := env.event(t, nil)
	env.published.err = errors.New("broker down")

	_, err := env.ticketing.Purchase(env.ctx, "u1", ev.ID)
	require.NoError(t, err)
}

func TestGetForUserHidesOtherTickets(t *testing.T) {
	env := newTestEnv(t, PolicyLenient)
	env.user(t, "u1")
	env.user(t, "u2")
	ev := env.event(t, nil)

	tk, err := env.ticketing.Purchase(env.ctx, "u1", ev.ID)
	require.NoError(t, err)

	d, err := env.ticketing.GetForUser(env.ctx, tk.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, ev.ID, d.EventID)
	assert.True(t, d.EventStartDate.Equal(ev.StartDate))

	_, err = env.ticketing.GetForUser(env.ctx, tk.ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)

	empty, err := env.ticketing.ListForUser(env.ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
