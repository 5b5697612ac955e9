package session

import "errors"

// ErrVisitNotFound is returned for unknown or expired visit IDs.
var ErrVisitNotFound = errors.New("visit not found")
