package model

import "time"

// SlotLock is an advisory lock keyed on the requested slot coordinates. It
// serializes concurrent creation attempts for the same slot before the
// overlap-check transaction runs. Locks auto-expire via a TTL index on
// expires_at so a crashed holder cannot wedge a slot.
type SlotLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
