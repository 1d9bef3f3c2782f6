// Package common defines shared constants and sentinel errors used across
// the furnboard client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// API-level errors.
	ErrAPIError     = errors.New("api error")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrBackendDegraded = errors.New("backend degraded")

	// Queue payload errors.
	ErrUnknownEntityKind = errors.New("unknown entity kind")
	ErrUnknownAction     = errors.New("unknown action")
)
