package repository

import (
	"context"

	"github.com/fieldops-microservice/internal/domain"
)

// StreamRepository works with Redis Streams via consumer groups.
type StreamRepository interface {
	// CreateConsumerGroup creates the consumer group, tolerating the
	// group already existing.
	CreateConsumerGroup(ctx context.Context, stream, group string) error

	// ConsumeBatch reads up to maxCount pending messages without
	// blocking indefinitely.
	ConsumeBatch(ctx context.Context, stream, group, consumer string, maxCount int) ([]domain.StreamMessage, error)

	// AckMessage acknowledges one processed message.
	AckMessage(ctx context.Context, stream, group, messageID string) error

	// AckMessages acknowledges a batch of processed messages.
	AckMessages(ctx context.Context, stream, group string, messageIDs []string) error

	// PublishToStream marshals data to JSON and appends it to the stream.
	PublishToStream(ctx context.Context, stream string, data interface{}) error
}
