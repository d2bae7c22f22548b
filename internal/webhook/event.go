package webhook

import (
	"encoding/json"
	"fmt"
)

// Event types the service reacts to.
const (
	TypeUserCreated = "user.created"
	TypeUserUpdated = "user.updated"
)

// Event is the outer envelope of a delivery.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// UserData is the user object carried by user.* events.
type UserData struct {
	ID                    string         `json:"id"`
	FirstName             string         `json:"first_name"`
	LastName              string         `json:"last_name"`
	ImageURL              string         `json:"image_url"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
}

// EmailAddress is one of the user's addresses.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail returns the address flagged primary, or the first one.
func (u UserData) PrimaryEmail() string {
	for _, e := range u.EmailAddresses {
		if e.ID == u.PrimaryEmailAddressID {
			return e.EmailAddress
		}
	}
	if len(u.EmailAddresses) > 0 {
		return u.EmailAddresses[0].EmailAddress
	}
	return ""
}

// Decode parses a verified body.
func Decode(body []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return Event{}, fmt.Errorf("decode webhook: %w", err)
	}
	if ev.Type == "" {
		return Event{}, fmt.Errorf("decode webhook: missing type")
	}
	return ev, nil
}

// User decodes the data of a user.* event.
func (e Event) User() (UserData, error) {
	var u UserData
	if err := json.Unmarshal(e.Data, &u); err != nil {
		return UserData{}, fmt.Errorf("decode user: %w", err)
	}
	return u, nil
}
