package model

import "time"

// Itinerary represents a trip plan created by a user.  AverageRating and
// TotalReviews are maintained by the rating aggregator and must not be
// written anywhere else.
type Itinerary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	UserID        string    `json:"user_id"` // creator
	IsPublic      bool      `json:"is_public"`
	TotalDays     int       `json:"total_days"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Participant roles.
const (
	ParticipantRoleParticipant = "participant"
)

// ItineraryParticipant links a user to a shared itinerary.  The pair
// (ItineraryID, UserID) is unique.  InvitedBy is empty for self-joins.
type ItineraryParticipant struct {
	ID          string    `json:"id"`
	ItineraryID string    `json:"itinerary_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	InvitedBy   string    `json:"invited_by,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}
