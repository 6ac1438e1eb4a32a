// Package repository defines sentinel errors shared across repositories.
// Handlers match on these to pick HTTP status codes without inspecting
// driver-specific error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when a registration collides with an existing
// address in the same kind's table. Handlers translate this into HTTP 400.
var ErrEmailExists = errors.New("email already registered")

// ErrPlateExists is returned when a driver registration reuses a vehicle
// plate. Handlers translate this into HTTP 400.
var ErrPlateExists = errors.New("vehicle plate already registered")

// ErrNotFound is returned when no principal matches the given email or id.
// Handlers translate this into HTTP 404.
var ErrNotFound = errors.New("principal not found")
