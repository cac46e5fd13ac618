package worker

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/worldsim/internal/queue"
	"github.com/jwebster45206/worldsim/internal/storage"
	"github.com/jwebster45206/worldsim/pkg/worldschema"
)

const sampleWorld = `{
  "metadata": {"title": "Test World", "start_location": "cabin"},
  "locations": [
    {"id": "cabin", "name": "Cabin", "exits": {"north": {"type": "open", "to": "yard"}}},
    {"id": "yard", "name": "Yard"}
  ],
  "player_state": {"id": "should_be_overridden", "name": "Player", "location": "cabin"}
}`

func newTestWorker(t *testing.T) (*Worker, *queue.Client, storage.Storage, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	q := queue.NewClient(mr.Addr(), "test-ticks")
	store := storage.NewMockStorage()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	w := New(q, store, 999, logger, "test-worker")
	return w, q, store, mr
}

func TestProcessNext_UnknownSessionIsDroppedSilently(t *testing.T) {
	w, q, _, mr := newTestWorker(t)
	defer mr.Close()
	defer q.Close()

	ctx := context.Background()
	sessionID := uuid.New()
	require.NoError(t, q.Enqueue(ctx, sessionID))

	assert.NoError(t, w.processNext())

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), depth)
}

func TestProcessNext_TicksKnownSession(t *testing.T) {
	w, q, store, mr := newTestWorker(t)
	defer mr.Close()
	defer q.Close()

	ctx := context.Background()
	sessionID := uuid.New()

	gs, err := worldschema.Load([]byte(sampleWorld), nil)
	require.NoError(t, err)
	require.NoError(t, store.SaveGameState(ctx, sessionID, gs))

	before := gs.TurnCounter
	require.NoError(t, q.Enqueue(ctx, sessionID))

	require.NoError(t, w.processNext())

	saved, err := store.LoadGameState(ctx, sessionID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Greater(t, saved.TurnCounter, before)
}

func TestProcessNext_RequeuesOnLockContention(t *testing.T) {
	w, q, _, mr := newTestWorker(t)
	defer mr.Close()
	defer q.Close()

	ctx := context.Background()
	sessionID := uuid.New()

	locked, err := q.AcquireLock(ctx, sessionID, "another-worker", time.Minute)
	require.NoError(t, err)
	require.True(t, locked)

	require.NoError(t, q.Enqueue(ctx, sessionID))
	require.NoError(t, w.processNext())

	depth, err := q.Depth(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), depth, "tick should be re-queued when the session lock is already held")
}

func TestStartAndStop(t *testing.T) {
	w, q, _, mr := newTestWorker(t)
	defer mr.Close()
	defer q.Close()

	done := make(chan error, 1)
	go func() { done <- w.Start() }()

	w.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop after Stop() was called")
	}
}
