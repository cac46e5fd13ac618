package queue

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestQueue(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := NewClient(mr.Addr(), "test-ticks")
	return client, mr
}

func TestEnqueueAndDequeue(t *testing.T) {
	client, mr := setupTestQueue(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	sessionID := uuid.New()

	require.NoError(t, client.Enqueue(ctx, sessionID))

	depth, err := client.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), depth)

	tick, err := client.Dequeue(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, tick)
	assert.Equal(t, sessionID, tick.SessionID)

	depth, err = client.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), depth)
}

func TestDequeue_EmptyQueueTimesOut(t *testing.T) {
	client, mr := setupTestQueue(t)
	defer mr.Close()
	defer client.Close()

	tick, err := client.Dequeue(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Nil(t, tick)
}

func TestFIFOOrdering(t *testing.T) {
	client, mr := setupTestQueue(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	var sessionIDs []uuid.UUID
	for i := 0; i < 5; i++ {
		id := uuid.New()
		sessionIDs = append(sessionIDs, id)
		require.NoError(t, client.Enqueue(ctx, id))
	}

	for _, want := range sessionIDs {
		tick, err := client.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		require.NotNil(t, tick)
		assert.Equal(t, want, tick.SessionID)
	}
}

func TestAcquireAndReleaseLock(t *testing.T) {
	client, mr := setupTestQueue(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	sessionID := uuid.New()

	locked, err := client.AcquireLock(ctx, sessionID, "worker-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)

	// A second owner cannot acquire the same lock while it's held.
	locked, err = client.AcquireLock(ctx, sessionID, "worker-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, locked)

	// Releasing with the wrong owner does not clear the lock.
	require.NoError(t, client.ReleaseLock(ctx, sessionID, "worker-b"))
	locked, err = client.AcquireLock(ctx, sessionID, "worker-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, locked)

	// The original owner releases it, freeing it up for another worker.
	require.NoError(t, client.ReleaseLock(ctx, sessionID, "worker-a"))
	locked, err = client.AcquireLock(ctx, sessionID, "worker-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, locked)
}

func TestPing(t *testing.T) {
	client, mr := setupTestQueue(t)
	defer mr.Close()
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))
}
