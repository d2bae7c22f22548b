package model

import "time"

// User represents a row in the `users` table.  The ID is the opaque key
// issued by the external identity provider; it is never generated here
// and never changes once stored.
//
// Fields:
//  ID        – identity provider key (primary key).
//  Email     – primary email address reported by the provider.
//  FirstName – given name, may be empty.
//  LastName  – family name, may be empty.
//  AvatarURL – profile image reference, may be empty.
//  CreatedAt – timestamp of first provisioning.
//  UpdatedAt – timestamp of the last profile sync.
type User struct {
	ID        string    `json:"id"`         // users.id
	Email     string    `json:"email"`      // users.email
	FirstName string    `json:"first_name"` // users.first_name
	LastName  string    `json:"last_name"`  // users.last_name
	AvatarURL string    `json:"avatar_url"` // users.avatar_url
	CreatedAt time.Time `json:"created_at"` // users.created_at
	UpdatedAt time.Time `json:"updated_at"` // users.updated_at
}

// DisplayName joins the name parts, falling back to the email when the
// provider did not supply any.
func (u User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Email
	}
	return name
}
