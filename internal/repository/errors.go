package repository

import "errors"

// Sentinel errors returned by every store backend. Callers match them with errors.Is.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
