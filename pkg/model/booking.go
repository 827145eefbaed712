package model

import (
	"time"

	"hearth/pkg/interval"
)

// Booking is a committed reservation of the shared kitchen. Bookings are
// immutable once committed; the only lifecycle transition is deletion via a
// matching capability token.
type Booking struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Occupant  string    `json:"occupant" bson:"occupant" validate:"required,min=1,max=100"`
	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`

	// DeleteToken is the cancellation capability. It is returned to the
	// creator exactly once and never serialized on any read path.
	DeleteToken string `json:"-" bson:"delete_token"`

	CreatedAt time.Time `json:"created_at,omitempty" bson:"created_at" validate:"omitempty"`
}

func (b *Booking) Interval() interval.Interval {
	return interval.New(b.StartTime, b.EndTime)
}

// BookingReceipt is the creation response payload: the booking id and the
// one-time delete token. Losing the token permanently forfeits the ability
// to cancel.
type BookingReceipt struct {
	ID          string `json:"booking_id"`
	DeleteToken string `json:"delete_token"`
}
