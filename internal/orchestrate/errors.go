package orchestrate

import "errors"

var (
	// ErrNotFound signals an empty aggregate after every term was processed.
	ErrNotFound = errors.New("no records found")

	// ErrFetchFailed signals that an upstream fetch failed outright, as
	// opposed to returning an empty result set.
	ErrFetchFailed = errors.New("upstream fetch failed")

	// ErrBadCategory signals a search category other than players or clubs.
	ErrBadCategory = errors.New("unknown search category")
)
