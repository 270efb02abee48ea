package models

import "time"

// TokenStatus is the stored lifecycle state of a token. Expired and
// Exhausted may additionally be derived lazily from ExpiresOn/UseCount
// at read time; a stale stored status never wins over those fields.
type TokenStatus string

const (
	TokenActive    TokenStatus = "Active"
	TokenRevoked   TokenStatus = "Revoked"
	TokenExpired   TokenStatus = "Expired"
	TokenExhausted TokenStatus = "Exhausted"
)

// Token is a capability bound to exactly one Entry at issuance time.
// Destination is frozen when the token is issued; recomputing the owning
// entry never changes it.
type Token struct {
	ID          string
	EntryID     string
	Token       string
	Destination string
	Status      TokenStatus

	ExpiresOn       *time.Time
	MaxUses         int // 0 means unlimited
	UseCount        int
	RateLimitPerMin int // 0 means no per-token cap
	LastUsedOn      *time.Time

	CreatedAt time.Time
}

// Usable reports whether the token would pass the lifecycle checks at
// the given instant. It does not consume a use.
func (t *Token) Usable(now time.Time) bool {
	if t.Status != TokenActive {
		return false
	}
	if t.ExpiresOn != nil && !now.Before(*t.ExpiresOn) {
		return false
	}
	if t.MaxUses > 0 && t.UseCount >= t.MaxUses {
		return false
	}
	return true
}
