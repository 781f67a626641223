package repositories

import "errors"

// ErrNotFound is wrapped by every repository when a lookup matches nothing.
// Callers distinguish it with errors.Is.
var ErrNotFound = errors.New("not found")
