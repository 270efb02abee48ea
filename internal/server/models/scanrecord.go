package models

import "time"

// ScanResult classifies the outcome of a resolution attempt.
type ScanResult string

const (
	ScanSuccess       ScanResult = "success"
	ScanInvalid       ScanResult = "invalid"
	ScanExpired       ScanResult = "expired"
	ScanRevoked       ScanResult = "revoked"
	ScanExhausted     ScanResult = "exhausted"
	ScanRateLimited   ScanResult = "rate_limited"
	ScanLoginRequired ScanResult = "login_required"
	ScanForbidden     ScanResult = "forbidden"
)

// ScanRecord is an append-only audit entry. Exactly one is written per
// resolution attempt, regardless of outcome.
type ScanRecord struct {
	ID     string
	Seq    string // human-sortable display sequence, e.g. 202608-000042
	Number int64

	TokenID   string // empty when the token was never found
	TokenHash string // sha256 of the presented string, survives token deletion

	ScannedAt      time.Time
	User           string // empty for anonymous callers
	IP             string
	UserAgent      string
	Referer        string
	ResolvedURL    string // scheme://host/path only, no query or fragment
	Result         ScanResult
	UseCountAtScan int
}
