package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClient struct {
	tasks []*asynq.Task
	err   error
}

func (r *recordingClient) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{ID: "t-1", Type: task.Type()}, nil
}

func TestEnqueuer_RoomAndUserPurge(t *testing.T) {
	client := &recordingClient{}
	e := &Enqueuer{client: client}
	ctx := context.Background()

	require.NoError(t, e.EnqueueRoomPurge(ctx, 12))
	require.NoError(t, e.EnqueueUserPurge(ctx, 4))
	require.Len(t, client.tasks, 2)

	assert.Equal(t, TypeRoomPurge, client.tasks[0].Type())
	var room RoomPurgePayload
	require.NoError(t, json.Unmarshal(client.tasks[0].Payload(), &room))
	assert.Equal(t, uint(12), room.RoomID)

	assert.Equal(t, TypeUserPurge, client.tasks[1].Type())
	var user UserPurgePayload
	require.NoError(t, json.Unmarshal(client.tasks[1].Payload(), &user))
	assert.Equal(t, uint(4), user.UserID)
}

func TestEnqueuer_PropagatesError(t *testing.T) {
	e := &Enqueuer{client: &recordingClient{err: errors.New("redis down")}}

	err := e.EnqueueRoomPurge(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), TypeRoomPurge)
}
