package model

import "time"

// Friend request statuses.  A request starts PENDING and moves exactly
// once to ACCEPTED or REJECTED.
const (
	FriendRequestPending  = "pending"
	FriendRequestAccepted = "accepted"
	FriendRequestRejected = "rejected"
)

// FriendRequest mirrors the `friend_requests` table.
//
// Fields:
//  ID         – primary key (uuid).
//  FromUserID – user who sent the request.
//  ToUserID   – user who may accept or reject it.
//  Status     – pending, accepted or rejected.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – timestamp of the last status change.
type FriendRequest struct {
	ID         string    `json:"id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Friendship is one directed edge of the friendship graph.  Edges are
// always written in pairs, (A,B) together with (B,A).
type Friendship struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`   // friendships.user_id (owner of the edge)
	FriendID  string    `json:"friend_id"` // friendships.friend_id
	CreatedAt time.Time `json:"created_at"`
}
