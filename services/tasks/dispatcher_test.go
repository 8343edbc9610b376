package tasks

import (
	"context"
	"errors"
	"testing"

	"homeserve/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	tasks []*asynq.Task
	err   error
}

func (c *recordingClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{ID: "t-1", Type: task.Type()}, nil
}

func TestEnqueueAggregate(t *testing.T) {
	client := &recordingClient{}
	d := NewDispatcher(client, nil)

	require.NoError(t, d.EnqueueAggregate(context.Background(), "r-1"))
	require.Len(t, client.tasks, 1)
	assert.Equal(t, TypeRatingAggregate, client.tasks[0].Type())

	p, err := ParseRatingAggregate(client.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, "r-1", p.RatingID)
}

func TestEnqueueAggregateIgnoresDuplicateTask(t *testing.T) {
	d := NewDispatcher(&recordingClient{err: asynq.ErrTaskIDConflict}, nil)
	assert.NoError(t, d.EnqueueAggregate(context.Background(), "r-1"))

	d = NewDispatcher(&recordingClient{err: errors.New("redis down")}, nil)
	assert.Error(t, d.EnqueueAggregate(context.Background(), "r-1"))
}

func TestPublishBookingEventRoutesByEvent(t *testing.T) {
	client := &recordingClient{}
	d := NewDispatcher(client, nil)

	require.NoError(t, d.PublishBookingEvent(context.Background(), models.BookingEventPayload{
		BookingID: "b-1", UserID: "u-1", ProviderID: "p-1", Event: models.BookingEventAssigned,
	}))
	require.NoError(t, d.PublishBookingEvent(context.Background(), models.BookingEventPayload{
		BookingID: "b-1", UserID: "u-1", Event: models.BookingEventCancelled,
	}))

	require.Len(t, client.tasks, 2)
	assert.Equal(t, TypeBookingAssigned, client.tasks[0].Type())
	assert.Equal(t, TypeBookingChanged, client.tasks[1].Type())

	p, err := ParseBookingEvent(client.tasks[1])
	require.NoError(t, err)
	assert.Equal(t, models.BookingEventCancelled, p.Event)
}
