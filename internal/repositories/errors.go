package repositories

import "errors"

// Sentinel errors shared by every repository. Handlers translate them into
// 404 and 409 responses respectively.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)
