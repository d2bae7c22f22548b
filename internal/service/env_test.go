package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bucharest-discover/internal/database"
	"github.com/iliyamo/bucharest-discover/internal/model"
	q "github.com/iliyamo/bucharest-discover/internal/queue"
	"github.com/iliyamo/bucharest-discover/internal/repository"
)

type testEnv struct {
	ctx  context.Context
	db   *sql.DB
	repo struct {
		users        *repository.UserRepo
		friends      *repository.FriendRepo
		itineraries  *repository.ItineraryRepo
		participants *repository.ParticipantRepo
		events       *repository.EventRepo
		locations    *repository.LocationRepo
		tickets      *repository.TicketRepo
		reviews      *repository.ReviewRepo
	}
	identity      *IdentityService
	social        *SocialService
	participation *ParticipationService
	ticketing     *TicketingService
	ratings       *RatingService
	published     *recordingPublisher
}

// fakeClock hands out strictly increasing instants so "newest first"
// orderings are deterministic.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []q.TicketPurchasedEvent
	err    error
}

func (p *recordingPublisher) PublishTicketPurchased(_ context.Context, ev q.TicketPurchasedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestEnv(t *testing.T, policy FriendPolicy) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "discover.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	env := &testEnv{ctx: context.Background(), db: db, published: &recordingPublisher{}}
	require.NoError(t, database.Migrate(env.ctx, db, database.DialectSQLite))

	env.repo.users = repository.NewUserRepo(db)
	env.repo.friends = repository.NewFriendRepo(db)
	env.repo.itineraries = repository.NewItineraryRepo(db)
	env.repo.participants = repository.NewParticipantRepo(db)
	env.repo.events = repository.NewEventRepo(db)
	env.repo.locations = repository.NewLocationRepo(db)
	env.repo.tickets = repository.NewTicketRepo(db)
	env.repo.reviews = repository.NewReviewRepo(db)

	clock := &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	env.identity = NewIdentityService(env.repo.users)
	env.identity.now = clock.Now
	env.social = NewSocialService(env.repo.users, env.repo.friends, policy)
	env.social.now = clock.Now
	env.participation = NewParticipationService(env.repo.users, env.repo.itineraries, env.repo.participants)
	env.participation.now = clock.Now
	env.ticketing = NewTicketingService(env.repo.users, env.repo.events, env.repo.tickets, env.published)
	env.ticketing.now = clock.Now
	env.ratings = NewRatingService(env.repo.users, env.repo.reviews)
	env.ratings.now = clock.Now
	return env
}

func (e *testEnv) user(t *testing.T, id string) model.User {
	t.Helper()
	u, err := e.identity.Provision(e.ctx, ProvisionInput{ID: id, Email: id + "@example.ro", FirstName: id})
	require.NoError(t, err)
	return u
}

func (e *testEnv) event(t *testing.T, maxCapacity *int) model.Event {
	t.Helper()
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	ev := model.Event{
		ID:          uuid.NewString(),
		Name:        "Jazz at the Athenaeum",
		StartDate:   now.AddDate(0, 2, 0),
		EndDate:     now.AddDate(0, 2, 0).Add(3 * time.Hour),
		PriceCents:  8000,
		Currency:    "RON",
		MaxCapacity: maxCapacity,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, e.repo.events.Create(e.ctx, ev))
	return ev
}

func (e *testEnv) location(t *testing.T) model.Location {
	t.Helper()
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	l := model.Location{
		ID:        uuid.NewString(),
		Name:      "Cismigiu Gardens",
		Address:   "Bulevardul Regina Elisabeta",
		Latitude:  44.4378,
		Longitude: 26.0906,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, e.repo.locations.Create(e.ctx, l))
	return l
}

func intPtr(v int) *int { return &v }

// race runs fn n times concurrently and returns every result.
func race(n int, fn func() error) []error {
	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i)
	}
	close(start)
	wg.Wait()
	return errs
}

func countNil(errs []error) int {
	n := 0
	for _, err := range errs {
		if err == nil {
			n++
		}
	}
	return n
}
