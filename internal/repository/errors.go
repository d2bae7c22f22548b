// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow the service layer to
// distinguish between different failure scenarios without inspecting
// driver errors. ErrNotFound replaces sql.ErrNoRows at the package
// boundary, while ErrConflict signals that a UNIQUE or PRIMARY KEY
// constraint rejected a write (a duplicate pending request, membership
// or ticket).
package repository

import "errors"

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert collides with an existing row
// on a uniqueness constraint. Callers should translate it into the
// domain-specific duplicate error.
var ErrConflict = errors.New("conflict")
