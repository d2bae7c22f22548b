package model

import "time"

// Event is a dated happening, usually hosted at a Location.
//
// MaxCapacity is nil for events without a ceiling.  CurrentCapacity counts
// issued tickets and is only changed by the ticketing ledger.
type Event struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	LocationID      string    `json:"location_id,omitempty"`
	CategoryID      string    `json:"category_id,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	MaxCapacity     *int      `json:"max_capacity,omitempty"`
	CurrentCapacity int       `json:"current_capacity"`
	Organizer       string    `json:"organizer,omitempty"`
	IsActive        bool      `json:"is_active"`
	AverageRating   float64   `json:"average_rating"`
	TotalReviews    int       `json:"total_reviews"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
