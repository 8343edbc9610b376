package tasks

import (
	"encoding/json"
	"time"

	"homeserve/config"
	"homeserve/models"

	"github.com/hibiken/asynq"
)

// Task types handled by the background worker.
const (
	TypeRatingAggregate = "rating:aggregate"
	TypeRatingReconcile = "rating:reconcile"
	TypeBookingAssigned = "booking:assigned"
	TypeBookingChanged  = "booking:changed"
)

// AggregateMaxRetry bounds redelivery of a failed aggregate.
const AggregateMaxRetry = 10

// RedisConnOpt returns the asynq connection for the configured queue database.
func RedisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewRatingAggregateTask builds a retrying task that folds one rating into provider stats.
func NewRatingAggregateTask(ratingID string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.RatingAggregatePayload{RatingID: ratingID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRatingAggregate, b)
	opts := []asynq.Option{
		asynq.MaxRetry(AggregateMaxRetry),
		asynq.Timeout(30 * time.Second),
		// One pending aggregate per rating at a time.
		asynq.TaskID(TypeRatingAggregate + ":" + ratingID),
	}
	return task, opts, nil
}

// NewRatingReconcileTask builds the periodic reconciliation sweep.
func NewRatingReconcileTask() *asynq.Task {
	return asynq.NewTask(TypeRatingReconcile, nil, asynq.MaxRetry(0), asynq.Timeout(2*time.Minute))
}

// NewBookingEventTask builds a notification task for a booking change.
func NewBookingEventTask(payload models.BookingEventPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	taskType := TypeBookingChanged
	if payload.Event == models.BookingEventAssigned {
		taskType = TypeBookingAssigned
	}
	return asynq.NewTask(taskType, b), []asynq.Option{asynq.MaxRetry(5)}, nil
}

// ParseRatingAggregate decodes a rating:aggregate payload.
func ParseRatingAggregate(t *asynq.Task) (models.RatingAggregatePayload, error) {
	var p models.RatingAggregatePayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}

// ParseBookingEvent decodes a booking event payload.
func ParseBookingEvent(t *asynq.Task) (models.BookingEventPayload, error) {
	var p models.BookingEventPayload
	err := json.Unmarshal(t.Payload(), &p)
	return p, err
}
