package model

import "time"

// Reviewable subject kinds.  Each maps to a table carrying
// average_rating and total_reviews columns.
const (
	SubjectLocation  = "location"
	SubjectEvent     = "event"
	SubjectItinerary = "itinerary"
)

// Review is a 1–5 star rating with optional text on a subject.
type Review struct {
	ID          string    `json:"id"`
	SubjectKind string    `json:"subject_kind"`
	SubjectID   string    `json:"subject_id"`
	UserID      string    `json:"user_id"`
	Rating      int       `json:"rating"`
	Title       string    `json:"title,omitempty"`
	Content     string    `json:"content,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// RatingAggregate is the stored (average, count) pair of a subject.
type RatingAggregate struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}
