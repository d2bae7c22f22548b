package model

import "time"

// Ticket records one user's admission to one event.  Tickets are
// immutable after purchase and unique per (UserID, EventID).
type Ticket struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketDetail is a ticket joined with the event fields needed for
// listing and rendering.
type TicketDetail struct {
	Ticket
	EventName      string    `json:"event_name"`
	EventStartDate time.Time `json:"event_start_date"`
}
