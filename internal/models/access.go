package models

import "time"

// AccessRecord tracks a chat user's search entitlement. A record whose
// expiry has passed is logically absent; the access ledger evicts it the
// next time it is checked.
type AccessRecord struct {
	UserID     int64      `json:"user_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
	LastActive *time.Time `json:"last_active"`
}

// HasAccess reports whether the record grants access at the given instant.
func (a *AccessRecord) HasAccess(now time.Time) bool {
	return a.ExpiresAt != nil && now.Before(*a.ExpiresAt)
}
