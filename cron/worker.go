package cron

import (
	"context"
	"fmt"
	"time"

	"homeserve/models"
	"homeserve/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RatingJobs is the rating work the worker runs.
type RatingJobs interface {
	Aggregate(ctx context.Context, ratingID string) (bool, error)
	Reconcile(ctx context.Context) (int, error)
}

// BookingNotifier delivers booking notifications.
type BookingNotifier interface {
	NotifyBookingEvent(ctx context.Context, event models.BookingEventPayload) error
}

// Worker runs the asynq server and the periodic scheduler.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	cancel    context.CancelFunc
	logger    *zap.Logger
}

// WorkerOptions configures StartWorker.
type WorkerOptions struct {
	Concurrency   int
	ReconcileCron string
	Location      *time.Location
}

// NewMux routes task types to their handlers.
func NewMux(ratings RatingJobs, notifier BookingNotifier, logger *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRatingAggregate, handleRatingAggregate(ratings, logger))
	mux.HandleFunc(tasks.TypeRatingReconcile, handleRatingReconcile(ratings, logger))
	mux.HandleFunc(tasks.TypeBookingAssigned, handleBookingEvent(notifier, logger))
	mux.HandleFunc(tasks.TypeBookingChanged, handleBookingEvent(notifier, logger))
	return mux
}

// StartWorker starts the task server and registers the reconciliation sweep.
func StartWorker(ratings RatingJobs, notifier BookingNotifier, opts WorkerOptions, logger *zap.Logger) (*Worker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}
	redisOpts := tasks.RedisConnOpt()

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: opts.Concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	})
	mux := NewMux(ratings, notifier, logger)

	const maxAttempts = 5
	for attempt := 1; ; attempt++ {
		err := srv.Start(mux)
		if err == nil {
			break
		}
		logger.Warn("failed to start task worker", zap.Int("attempt", attempt), zap.Error(err))
		if attempt == maxAttempts {
			return nil, fmt.Errorf("task worker did not start after %d attempts: %w", maxAttempts, err)
		}
		time.Sleep(time.Duration(attempt*2) * time.Second)
	}

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: opts.Location})
	if opts.ReconcileCron != "" {
		entryID, err := scheduler.Register(opts.ReconcileCron, tasks.NewRatingReconcileTask())
		if err != nil {
			srv.Shutdown()
			return nil, fmt.Errorf("failed to register reconciliation %q: %w", opts.ReconcileCron, err)
		}
		logger.Info("rating reconciliation scheduled", zap.String("cron", opts.ReconcileCron), zap.String("entryID", entryID))
	}
	if err := scheduler.Start(); err != nil {
		srv.Shutdown()
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go monitorRedisConnection(ctx, redisOpts, logger)

	logger.Info("task worker started", zap.Int("concurrency", opts.Concurrency))
	return &Worker{server: srv, scheduler: scheduler, cancel: cancel, logger: logger}, nil
}

// Shutdown stops scheduling and waits for running tasks.
func (w *Worker) Shutdown() {
	w.cancel()
	w.scheduler.Shutdown()
	w.server.Shutdown()
	w.logger.Info("task worker stopped")
}

func handleRatingAggregate(ratings RatingJobs, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		p, err := tasks.ParseRatingAggregate(t)
		if err != nil || p.RatingID == "" {
			logger.Error("invalid aggregate payload", zap.Error(err))
			return fmt.Errorf("invalid aggregate payload: %w", asynq.SkipRetry)
		}
		applied, err := ratings.Aggregate(ctx, p.RatingID)
		if err != nil {
			logger.Warn("aggregate attempt failed", zap.String("ratingID", p.RatingID), zap.Error(err))
			return err
		}
		logger.Info("aggregate task done", zap.String("ratingID", p.RatingID), zap.Bool("applied", applied))
		return nil
	}
}

func handleRatingReconcile(ratings RatingJobs, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := ratings.Reconcile(ctx)
		if err != nil {
			// The next sweep picks up whatever is left.
			logger.Error("rating reconciliation incomplete", zap.Int("applied", n), zap.Error(err))
		}
		return nil
	}
}

func handleBookingEvent(notifier BookingNotifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		p, err := tasks.ParseBookingEvent(t)
		if err != nil || p.BookingID == "" {
			logger.Error("invalid booking event payload", zap.String("type", t.Type()), zap.Error(err))
			return fmt.Errorf("invalid booking event payload: %w", asynq.SkipRetry)
		}
		if err := notifier.NotifyBookingEvent(ctx, p); err != nil {
			logger.Warn("booking notification failed",
				zap.String("bookingID", p.BookingID),
				zap.String("event", p.Event),
				zap.Error(err),
			)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue database periodically to surface outages.
func monitorRedisConnection(ctx context.Context, opts asynq.RedisClientOpt, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
