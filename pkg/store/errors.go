package store

import "errors"

// ErrGameNotFound is returned when an operation references an id that has
// no row.
var ErrGameNotFound = errors.New("game not found")
