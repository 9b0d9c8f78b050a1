package control

import (
	"strconv"

	"github.com/localdnspro/localdnspro/internal/store"
)

// IsNotFound reports whether err came from a store lookup that found
// nothing, so a management layer can map it to its own "404" shape without
// importing internal/store directly.
func IsNotFound(err error) bool { return store.IsNotFound(err) }

// IsInvalid reports whether err came from a store write that failed
// validation, so a management layer can map it to its own "400" shape.
func IsInvalid(err error) bool { return store.IsInvalid(err) }

// parsePositiveInt parses raw as a positive integer, returning an error for
// malformed input and for zero or negative values. Callers such as
// upstreamTimeout substitute their own default when it fails.
func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
