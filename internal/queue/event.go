// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// TicketPurchasedQueue is the durable queue carrying TicketPurchasedEvent.
const TicketPurchasedQueue = "ticket.purchased"

// TicketPurchasedEvent is published after a ticket purchase commits. It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type TicketPurchasedEvent struct {
	TicketID       string `json:"ticket_id"`
	UserID         string `json:"user_id"`
	EventID        string `json:"event_id"`
	EventName      string `json:"event_name"`
	EventStartsAt  string `json:"event_starts_at"`
	PriceCents     int64  `json:"price_cents"`
	Currency       string `json:"currency"`
	PurchasedAt    string `json:"purchased_at"`
	RemainingSeats *int   `json:"remaining_seats,omitempty"`
}
