package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned by backends that do not use gorm (e.g. the
// in-memory store) when a record does not exist.
var ErrNotFound = errors.New("record not found")

// IsNotFoundError reports whether err means the requested record does not
// exist, regardless of which backend produced it.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrNotFound)
}
