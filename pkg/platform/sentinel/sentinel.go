package sentinel

import "errors"

// Sentinel store errors. Stores return these (optionally wrapped) so services
// can translate them into domain errors exactly once.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
	ErrInUse       = errors.New("still referenced")
)
