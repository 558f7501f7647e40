package core

import "errors"

// Error taxonomy shared across layers. Not-found is its own kind so callers
// can map it to a 404 (or a distinguishable client error) instead of a
// generic failure message.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)
