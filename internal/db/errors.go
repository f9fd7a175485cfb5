package db

import "errors"

// Domain-level database error sentinels.
var (
	// Key errors
	ErrInvalidOrUsedKey = errors.New("invalid or already redeemed key")
	ErrKeyNotFound      = errors.New("key not found")
	ErrTokenExhausted   = errors.New("could not generate a unique token")

	// Access errors
	ErrAccessNotFound = errors.New("no access record for user")
)
