package models

import (
	"time"

	"github.com/google/uuid"
)

// Key is a redeemable access key. The token is the credential a user
// submits via /redeem; the UUID only identifies the row in the admin UI.
type Key struct {
	ID         uuid.UUID `json:"id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	RedeemedBy *int64    `json:"redeemed_by"` // nil until redeemed, then permanently set
	CreatedAt  time.Time `json:"created_at"`
}

// Active reports whether the key can still be redeemed.
func (k *Key) Active(now time.Time) bool {
	return k.RedeemedBy == nil && now.Before(k.ExpiresAt)
}
