// Package events publishes booking lifecycle notifications to downstream
// consumers. Publishing is best-effort and happens after commit; a failed
// publish never rolls back a booking.
package events

import (
	"context"
	"time"

	"hearth/pkg/model"
)

const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingCreatedEvent is the payload for a committed reservation. The
// delete token is a capability and is never published.
type BookingCreatedEvent struct {
	BookingID string    `json:"booking_id"`
	Occupant  string    `json:"occupant"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type BookingCancelledEvent struct {
	BookingID string `json:"booking_id"`
}

type Publisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking) error
	BookingCancelled(ctx context.Context, bookingID string) error
	Close() error
}

// NoopPublisher is used when eventing is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return nil
}

func (NoopPublisher) BookingCancelled(ctx context.Context, bookingID string) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
