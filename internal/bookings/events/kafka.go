package events

import (
	"context"

	"hearth/pkg/kafka"
	"hearth/pkg/model"
)

const schemaVersion = "1"

// KafkaPublisher publishes booking events keyed by booking id, so all
// events for one booking land on the same partition in order.
type KafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

func NewKafkaPublisher(producer *kafka.Producer, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		source:   source,
	}
}

func (p *KafkaPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventType(TypeBookingCreated).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		WithValue(BookingCreatedEvent{
			BookingID: booking.ID,
			Occupant:  booking.Occupant,
			StartTime: booking.StartTime,
			EndTime:   booking.EndTime,
		}).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) BookingCancelled(ctx context.Context, bookingID string) error {
	msg := kafka.NewMessage().
		WithKey(bookingID).
		WithEventType(TypeBookingCancelled).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		WithValue(BookingCancelledEvent{BookingID: bookingID}).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
