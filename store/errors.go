package store

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownField = errors.New("unknown field")
	ErrUnavailable  = errors.New("store unavailable")
)
