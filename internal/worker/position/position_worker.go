// Package position consumes device position events from the position
// stream and hands them to a sink: the in-process session manager in
// the API binary, the cache mirror in the standalone worker binary.
package position

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/fieldops-microservice/internal/domain"
	"github.com/fieldops-microservice/internal/domain/repository"
	"github.com/fieldops-microservice/internal/worker"
)

const (
	maxBatchSize    = 20
	emptyQueueSleep = 100 * time.Millisecond
)

// Sink receives parsed position events. Implementations must tolerate
// events for sessions they do not know about.
type Sink interface {
	Observe(ctx context.Context, event domain.PositionEvent) error
}

// PositionWorker drains the position stream in batches.
type PositionWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	sink         Sink
	consumerName string
}

func NewPositionWorker(
	streamRepo repository.StreamRepository,
	sink Sink,
	consumerGroup string,
	logger *zap.Logger,
) *PositionWorker {
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &PositionWorker{
		BaseWorker:   worker.NewBaseWorker("position-tracker", consumerGroup, logger),
		streamRepo:   streamRepo,
		sink:         sink,
		consumerName: consumerName,
	}
}

func (w *PositionWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting PositionWorker (batch mode)",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("max_batch_size", maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamPositionUpdate, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		default:
			processed, err := w.processBatch(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Error("Failed to process batch", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}
			if processed == 0 {
				time.Sleep(emptyQueueSleep)
			}
		}
	}
}

// processBatch reads one batch, dispatches each event to the sink and
// acknowledges everything it consumed. Unparsable messages are acked
// too so they cannot wedge the group.
func (w *PositionWorker) processBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.streamRepo.ConsumeBatch(
		ctx,
		domain.StreamPositionUpdate,
		w.ConsumerGroup(),
		w.consumerName,
		maxBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	logger.Debug("Processing position batch", zap.Int("message_count", len(messages)))

	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := w.parseMessage(msg)
		if err != nil {
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		if err := w.sink.Observe(ctx, *event); err != nil {
			// A stale session is expected after expiry; anything else
			// is worth a warning but never blocks the stream.
			logger.Debug("Position event dropped",
				zap.String("session_id", event.SessionID.String()),
				zap.Error(err))
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamPositionUpdate, w.ConsumerGroup(), ackIDs); err != nil {
		return len(messages), fmt.Errorf("failed to ack batch: %w", err)
	}
	return len(messages), nil
}

func (w *PositionWorker) parseMessage(msg domain.StreamMessage) (*domain.PositionEvent, error) {
	var event domain.PositionEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal position event: %w", err)
	}
	return &event, nil
}
