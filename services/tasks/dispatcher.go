package tasks

import (
	"context"
	"errors"
	"fmt"

	"homeserve/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the subset of *asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher enqueues domain tasks on asynq.
type Dispatcher struct {
	Client Enqueuer
	Logger *zap.Logger
}

// NewDispatcher wraps an asynq client.
func NewDispatcher(client Enqueuer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Client: client, Logger: logger}
}

// EnqueueAggregate schedules a retrying aggregate for the rating. A task already
// queued for the same rating counts as success.
func (d *Dispatcher) EnqueueAggregate(ctx context.Context, ratingID string) error {
	task, opts, err := NewRatingAggregateTask(ratingID)
	if err != nil {
		return fmt.Errorf("failed to build aggregate task: %w", err)
	}
	info, err := d.Client.EnqueueContext(ctx, task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		d.Logger.Debug("aggregate already queued", zap.String("ratingID", ratingID))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to enqueue aggregate for rating %s: %w", ratingID, err)
	}
	d.Logger.Info("aggregate task enqueued", zap.String("ratingID", ratingID), zap.String("taskID", info.ID))
	return nil
}

// PublishBookingEvent enqueues a notification for a booking change.
func (d *Dispatcher) PublishBookingEvent(ctx context.Context, event models.BookingEventPayload) error {
	task, opts, err := NewBookingEventTask(event)
	if err != nil {
		return fmt.Errorf("failed to build booking event task: %w", err)
	}
	if _, err := d.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue %s event for booking %s: %w", event.Event, event.BookingID, err)
	}
	return nil
}
