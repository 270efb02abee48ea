// Package common defines shared constants and sentinel errors used across
// QR Foundry components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// ErrConfiguration marks an entry whose mode-specific fields are
	// incomplete. Non-retryable; shown verbatim to the operator.
	ErrConfiguration = errors.New("configuration error")

	// ErrIssuance marks a failed token issuance. The caller must fail
	// closed and never substitute a direct route for the token link.
	ErrIssuance = errors.New("issuance error")

	// ErrRateLimited marks a denied generation quota check.
	ErrRateLimited = errors.New("rate limited")
)
