// Package worker drains the background tick queue, advancing each
// idle session's commitments and gossip delivery so the world keeps
// moving between player turns.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/worldsim/internal/queue"
	"github.com/jwebster45206/worldsim/internal/storage"
	"github.com/jwebster45206/worldsim/internal/turnengine"
	"github.com/jwebster45206/worldsim/pkg/rng"
)

const (
	dequeueTimeout = 5 * time.Second
	lockTTL        = 30 * time.Second
)

// Worker is one consumer of the tick queue. Multiple workers can run
// against the same queue; the per-session lock ensures only one of
// them ticks a given session at a time, and guards against racing a
// player's own turn if that turn is mid-flight on another replica.
type Worker struct {
	id      string
	queue   *queue.Client
	storage storage.Storage
	rngSeed uint64
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(queueClient *queue.Client, storageService storage.Storage, rngSeed uint64, log *slog.Logger, workerID string) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	if workerID == "" {
		workerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	return &Worker{
		id:      workerID,
		queue:   queueClient,
		storage: storageService,
		rngSeed: rngSeed,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start blocks, processing ticks until Stop is called.
func (w *Worker) Start() error {
	w.log.Info("worker starting", "worker_id", w.id)
	for {
		select {
		case <-w.ctx.Done():
			w.log.Info("worker shutting down", "worker_id", w.id)
			return nil
		default:
			if err := w.processNext(); err != nil {
				w.log.Error("error processing tick", "error", err, "worker_id", w.id)
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	w.log.Info("worker stop requested", "worker_id", w.id)
	w.cancel()
}

func (w *Worker) processNext() error {
	tick, err := w.queue.Dequeue(w.ctx, dequeueTimeout)
	if err != nil {
		return fmt.Errorf("failed to dequeue tick: %w", err)
	}
	if tick == nil {
		return nil
	}

	w.log.Debug("received tick", "worker_id", w.id, "session_id", tick.SessionID)

	locked, err := w.queue.AcquireLock(w.ctx, tick.SessionID, w.id, lockTTL)
	if err != nil {
		return fmt.Errorf("failed to acquire session lock: %w", err)
	}
	if !locked {
		w.log.Info("session locked, re-queueing tick", "worker_id", w.id, "session_id", tick.SessionID)
		return w.queue.Enqueue(w.ctx, tick.SessionID)
	}
	defer func() {
		if err := w.queue.ReleaseLock(w.ctx, tick.SessionID, w.id); err != nil {
			w.log.Error("failed to release session lock", "error", err, "session_id", tick.SessionID)
		}
	}()

	return w.processTick(tick.SessionID)
}

func (w *Worker) processTick(sessionID uuid.UUID) error {
	start := time.Now()

	gs, err := w.storage.LoadGameState(w.ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}
	if gs == nil {
		w.log.Debug("tick for unknown session, dropping", "session_id", sessionID)
		return nil
	}

	seed1, seed2 := rng.SeedsForSession(w.rngSeed, sessionID)
	engine, err := turnengine.New(gs, w.log, seed1, seed2)
	if err != nil {
		return fmt.Errorf("failed to build engine for session %s: %w", sessionID, err)
	}

	phases, err := engine.Tick()
	if err != nil {
		return fmt.Errorf("failed to tick session %s: %w", sessionID, err)
	}

	if err := w.storage.SaveGameState(w.ctx, sessionID, gs); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}

	w.log.Info("tick processed",
		"worker_id", w.id,
		"session_id", sessionID,
		"phases", phases,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
