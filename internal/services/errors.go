package services

import "errors"

// Dashboard service errors
var (
	ErrUnknownChart      = errors.New("unknown chart")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUnknownTable      = errors.New("unknown table")
)
