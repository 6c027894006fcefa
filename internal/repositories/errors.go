package repositories

import "errors"

// Named error kinds so callers can branch without matching error strings.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrListingNotFound = errors.New("listing not found")
)
