package tenders

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrProtected    = errors.New("tender cannot be deleted")
)
