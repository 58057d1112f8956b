package generated

import "errors"

var (
	// ErrNotFound indicates the portfolio does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the portfolio belongs to another caller.
	ErrForbidden = errors.New("forbidden")
)
