package dberr

import "errors"

var (
	ErrNotFound = errors.New("not found")
)

// IsNotFound reports whether err is the not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
