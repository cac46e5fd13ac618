package session

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/worldsim/internal/storage"
	"github.com/jwebster45206/worldsim/pkg/parser"
)

const sampleWorld = `{
  "metadata": {"title": "Test World", "start_location": "cabin"},
  "locations": [
    {"id": "cabin", "name": "Cabin", "exits": {"north": {"type": "open", "to": "yard"}}, "items": ["lantern"]},
    {"id": "yard", "name": "Yard"}
  ],
  "items": [
    {"id": "lantern", "name": "Lantern", "location": "cabin", "portable": true, "provides_light": true}
  ],
  "player_state": {
    "id": "should_be_overridden", "name": "Player", "location": "cabin"
  }
}`

func newTestManager(t *testing.T) (*Manager, storage.Storage) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test-world.json"), []byte(sampleWorld), 0o644))

	store := storage.NewMockStorage()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewManager(store, dir, 12345, logger), store
}

func TestCreate_PersistsInitialState(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()

	id, engine, err := mgr.Create(ctx, "test-world")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	require.NotNil(t, engine)

	gs, err := store.LoadGameState(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, gs)
	assert.Equal(t, "Test World", gs.Metadata.Title)
}

func TestGet_ReturnsWarmEngineWithoutReload(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	id, created, err := mgr.Create(ctx, "test-world")
	require.NoError(t, err)

	got, err := mgr.Get(ctx, id)
	require.NoError(t, err)
	assert.Same(t, created, got, "Get should return the cached in-memory engine, not rebuild it")
}

func TestGet_RebuildsFromStorageOnCacheMiss(t *testing.T) {
	mgr, _ := newTestManager(t)
	ctx := context.Background()

	id, _, err := mgr.Create(ctx, "test-world")
	require.NoError(t, err)

	mgr.Evict(id)

	engine, err := mgr.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, engine)

	player, ok := engine.Accessor().GetActor("player")
	assert.True(t, ok)
	assert.NotNil(t, player)
}

func TestGet_UnknownSessionErrors(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, err := mgr.Get(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestPersist_SavesLiveEngineState(t *testing.T) {
	mgr, store := newTestManager(t)
	ctx := context.Background()

	id, engine, err := mgr.Create(ctx, "test-world")
	require.NoError(t, err)

	_, err = engine.Turn(parser.Context{}, "look")
	require.NoError(t, err)

	require.NoError(t, mgr.Persist(ctx, id))

	gs, err := store.LoadGameState(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, gs)
}
