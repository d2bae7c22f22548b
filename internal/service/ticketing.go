package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/bucharest-discover/internal/model"
	q "github.com/iliyamo/bucharest-discover/internal/queue"
	"github.com/iliyamo/bucharest-discover/internal/repository"
)

// TicketingService issues at most one ticket per (user, event) and keeps
// the event's seat counter in step with issued tickets.
type TicketingService struct {
	users     *repository.UserRepo
	events    *repository.EventRepo
	tickets   *repository.TicketRepo
	publisher TicketPublisher
	now       func() time.Time

	// publishTimeout bounds the whole announcement, broker dial included.
	publishTimeout time.Duration
}

// defaultPublishTimeout is how long a committed purchase may wait on the
// broker before its response is sent.
const defaultPublishTimeout = 5 * time.Second

// NewTicketingService wires the ledger. publisher may be nil.
func NewTicketingService(users *repository.UserRepo, events *repository.EventRepo, tickets *repository.TicketRepo, publisher TicketPublisher) *TicketingService {
	return &TicketingService{users: users, events: events, tickets: tickets, publisher: publisher, now: time.Now, publishTimeout: defaultPublishTimeout}
}

// Purchase issues a ticket for userID to eventID.
//
// The seat counter increment and the ticket insert share a transaction.
// A duplicate caught by UNIQUE(user_id, event_id) rolls the increment
// back, so a failed repurchase never consumes a seat.
func (s *TicketingService) Purchase(ctx context.Context, userID, eventID string) (model.Ticket, error) {
	if userID == "" || eventID == "" {
		return model.Ticket{}, invalid("eventId is required")
	}
	if err := requireUser(ctx, s.users, userID, "user"); err != nil {
		return model.Ticket{}, err
	}
	ev, err := s.events.GetByID(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !ev.IsActive) {
		return model.Ticket{}, notFound("event not found")
	}
	if err != nil {
		return model.Ticket{}, err
	}
	owned, err := s.tickets.Exists(ctx, userID, eventID)
	if err != nil {
		return model.Ticket{}, err
	}
	if owned {
		return model.Ticket{}, ErrAlreadyPurchased
	}
	if ev.MaxCapacity != nil && ev.CurrentCapacity >= *ev.MaxCapacity {
		return model.Ticket{}, ErrSoldOut
	}

	now := s.now().UTC()
	t := model.Ticket{
		ID:        uuid.NewString(),
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: now,
	}

	tx, err := s.tickets.DB().BeginTx(ctx, nil)
	if err != nil {
		return model.Ticket{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	reserved, err := s.tickets.ReserveCapacityTx(ctx, tx, eventID, now)
	if err != nil {
		return model.Ticket{}, err
	}
	if !reserved {
		return model.Ticket{}, ErrSoldOut
	}
	if err := s.tickets.CreateTx(ctx, tx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.Ticket{}, ErrAlreadyPurchased
		}
		return model.Ticket{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Ticket{}, err
	}
	committed = true

	s.announce(ctx, t, ev)
	return t, nil
}

// announce publishes the purchase. A broker failure is logged and never
// fails the purchase that already committed.
func (s *TicketingService) announce(ctx context.Context, t model.Ticket, ev model.Event) {
	if s.publisher == nil {
		return
	}
	msg := q.TicketPurchasedEvent{
		TicketID:      t.ID,
		UserID:        t.UserID,
		EventID:       ev.ID,
		EventName:     ev.Name,
		EventStartsAt: ev.StartDate.UTC().Format(time.RFC3339),
		PriceCents:    ev.PriceCents,
		Currency:      ev.Currency,
		PurchasedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if ev.MaxCapacity != nil {
		left := *ev.MaxCapacity - ev.CurrentCapacity - 1
		if left < 0 {
			left = 0
		}
		msg.RemainingSeats = &left
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()
	if err := s.publisher.PublishTicketPurchased(pubCtx, msg); err != nil {
		log.Printf("ticketing: publish ticket %s failed: %v", t.ID, err)
	}
}

// ListForUser returns the user's tickets, newest first.
func (s *TicketingService) ListForUser(ctx context.Context, userID string) ([]model.TicketDetail, error) {
	if userID == "" {
		return nil, invalid("user id is required")
	}
	return s.tickets.ListByUser(ctx, userID)
}

// GetForUser returns one of the user's tickets. Another user's ticket is
// reported as not found.
func (s *TicketingService) GetForUser(ctx context.Context, ticketID, userID string) (model.TicketDetail, error) {
	if ticketID == "" || userID == "" {
		return model.TicketDetail{}, invalid("ticket id is required")
	}
	d, err := s.tickets.GetByIDForUser(ctx, ticketID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.TicketDetail{}, notFound("ticket not found")
	}
	return d, err
}
