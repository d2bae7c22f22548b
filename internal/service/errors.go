// Package service holds the relationship-consistency rules: identity
// provisioning, the friend graph, itinerary membership, the ticket ledger
// and rating aggregation. Every operation reads current state, validates
// it and writes back within one unit of work; multi-write operations run
// in a single database transaction.
package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes; the more specific
// errors below wrap one of them, so callers test with errors.Is.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrSelfRequest           = fmt.Errorf("%w: cannot send a friend request to yourself", ErrInvalidInput)
	ErrDuplicateRequest      = fmt.Errorf("%w: friend request already pending", ErrConflict)
	ErrAlreadyFriends        = fmt.Errorf("%w: users are already friends", ErrConflict)
	ErrReverseRequestPending = fmt.Errorf("%w: the other user already sent you a request", ErrConflict)
	ErrRequestNotPending     = fmt.Errorf("%w: friend request already resolved", ErrInvalidState)
	ErrAlreadyMember         = fmt.Errorf("%w: user is already a participant", ErrConflict)
	ErrAlreadyPurchased      = fmt.Errorf("%w: ticket already purchased for this event", ErrConflict)
	ErrSoldOut               = fmt.Errorf("%w: event is sold out", ErrConflict)
)

func invalid(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidInput, msg) }

func notFound(what string) error { return fmt.Errorf("%w: %s", ErrNotFound, what) }
