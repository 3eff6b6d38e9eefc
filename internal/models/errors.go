package models

import "errors"

// Custom errors
var (
	ErrNotFound             = errors.New("record not found")
	ErrInvalidID            = errors.New("invalid ID format")
	ErrDataStoreUnavailable = errors.New("historical data store unavailable")
	ErrUnknownFactor        = errors.New("unknown factor")
	ErrInvalidFactorValue   = errors.New("invalid factor value")
	ErrNoRunners            = errors.New("race has no runners")
)
