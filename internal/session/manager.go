// Package session keeps one live turnengine.Engine per active play
// session in memory, backed by storage.Storage for durability: a cold
// Get reloads the session's GameState and rebuilds its Engine, a warm
// Get reuses the Engine already running so repeat turns advance the
// same in-process RNG sequence instead of re-seeding every request.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/jwebster45206/worldsim/internal/storage"
	"github.com/jwebster45206/worldsim/internal/turnengine"
	"github.com/jwebster45206/worldsim/pkg/rng"
	"github.com/jwebster45206/worldsim/pkg/worldschema"
)

type Manager struct {
	mu      sync.Mutex
	engines map[uuid.UUID]*turnengine.Engine

	storage  storage.Storage
	worldDir string
	rngSeed  uint64
	logger   *slog.Logger
}

func NewManager(store storage.Storage, worldDir string, rngSeed uint64, logger *slog.Logger) *Manager {
	return &Manager{
		engines:  make(map[uuid.UUID]*turnengine.Engine),
		storage:  store,
		worldDir: worldDir,
		rngSeed:  rngSeed,
		logger:   logger,
	}
}

// Create starts a new session from worldName (the base name of a
// .json file under the manager's world directory) and persists its
// initial GameState immediately, so the session survives a restart
// before the first turn is ever played.
func (m *Manager) Create(ctx context.Context, worldName string) (uuid.UUID, *turnengine.Engine, error) {
	path := filepath.Join(m.worldDir, worldName+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("session: read world %q: %w", worldName, err)
	}

	gs, err := worldschema.Load(data, m.logger)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("session: load world %q: %w", worldName, err)
	}

	id := uuid.New()
	seed1, seed2 := rng.SeedsForSession(m.rngSeed, id)
	engine, err := turnengine.New(gs, m.logger, seed1, seed2)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("session: build engine: %w", err)
	}

	if err := m.storage.SaveGameState(ctx, id, gs); err != nil {
		return uuid.Nil, nil, fmt.Errorf("session: persist initial state: %w", err)
	}

	m.mu.Lock()
	m.engines[id] = engine
	m.mu.Unlock()

	return id, engine, nil
}

// Get returns the session's live Engine, rebuilding it from storage on
// a cache miss (process restart, or a request landing on a different
// API replica than the one that created the session).
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*turnengine.Engine, error) {
	m.mu.Lock()
	engine, ok := m.engines[id]
	m.mu.Unlock()
	if ok {
		return engine, nil
	}

	gs, err := m.storage.LoadGameState(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session: load %s: %w", id, err)
	}
	if gs == nil {
		return nil, fmt.Errorf("session: %s not found", id)
	}

	seed1, seed2 := rng.SeedsForSession(m.rngSeed, id)
	engine, err = turnengine.New(gs, m.logger, seed1, seed2)
	if err != nil {
		return nil, fmt.Errorf("session: rebuild engine for %s: %w", id, err)
	}

	m.mu.Lock()
	m.engines[id] = engine
	m.mu.Unlock()
	return engine, nil
}

// Persist writes id's current GameState to storage, used after every
// turn so a worker ticking the session in the background (or another
// API replica) sees the latest state.
func (m *Manager) Persist(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	engine, ok := m.engines[id]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session: %s not loaded", id)
	}
	if err := m.storage.SaveGameState(ctx, id, engine.Accessor().GameState()); err != nil {
		return fmt.Errorf("session: persist %s: %w", id, err)
	}
	return nil
}

// Evict drops id's in-memory Engine, forcing the next Get to reload
// from storage.
func (m *Manager) Evict(id uuid.UUID) {
	m.mu.Lock()
	delete(m.engines, id)
	m.mu.Unlock()
}
