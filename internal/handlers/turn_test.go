package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/worldsim/internal/queue"
	"github.com/jwebster45206/worldsim/internal/session"
	"github.com/jwebster45206/worldsim/internal/storage"
)

const sampleWorld = `{
  "metadata": {"title": "Test World", "start_location": "cabin"},
  "locations": [
    {"id": "cabin", "name": "Cabin", "description": "A small cabin.", "exits": {"north": {"type": "open", "to": "yard"}}},
    {"id": "yard", "name": "Yard"}
  ],
  "player_state": {"id": "should_be_overridden", "name": "Player", "location": "cabin"}
}`

func newTestHandlers(t *testing.T) (*SessionHandler, *TurnHandler, *miniredis.Miniredis) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test-world.json"), []byte(sampleWorld), 0o644))

	mr, err := miniredis.Run()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	sessions := session.NewManager(storage.NewMockStorage(), dir, 42, logger)
	q := queue.NewClient(mr.Addr(), "test-ticks")

	return NewSessionHandler(sessions, logger), NewTurnHandler(sessions, q, logger), mr
}

func TestSessionHandler_CreatesSessionAndReturnsLook(t *testing.T) {
	sh, _, mr := newTestHandlers(t)
	defer mr.Close()

	body := strings.NewReader(`{"world": "test-world"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", body)
	rr := httptest.NewRecorder()

	sh.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp createSessionResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "Cabin", resp.Look.Name)
}

func TestSessionHandler_RejectsMissingWorld(t *testing.T) {
	sh, _, mr := newTestHandlers(t)
	defer mr.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	sh.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTurnHandler_PlaysATurnAndEnqueuesTick(t *testing.T) {
	sh, th, mr := newTestHandlers(t)
	defer mr.Close()

	createReq := httptest.NewRequest(http.MethodPost, "/v1/sessions", strings.NewReader(`{"world": "test-world"}`))
	createRR := httptest.NewRecorder()
	sh.ServeHTTP(createRR, createReq)

	var created createSessionResponse
	require.NoError(t, json.NewDecoder(createRR.Body).Decode(&created))

	turnReq := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+created.SessionID+"/turn", strings.NewReader(`{"input": "look"}`))
	turnRR := httptest.NewRecorder()
	th.ServeHTTP(turnRR, turnReq)

	assert.Equal(t, http.StatusOK, turnRR.Code)

	var turn turnResponse
	require.NoError(t, json.NewDecoder(turnRR.Body).Decode(&turn))
	assert.True(t, turn.Success)
	assert.NotEmpty(t, turn.Primary)

	depth, err := th.queue.Depth(createReq.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(1), depth, "a background tick should be enqueued after a played turn")
}

func TestTurnHandler_UnknownSessionReturns404(t *testing.T) {
	_, th, mr := newTestHandlers(t)
	defer mr.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/00000000-0000-0000-0000-000000000000/turn", strings.NewReader(`{"input": "look"}`))
	rr := httptest.NewRecorder()

	th.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSessionIDFromPath(t *testing.T) {
	id, ok := sessionIDFromPath("/v1/sessions/00000000-0000-0000-0000-000000000001/turn")
	assert.True(t, ok)
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", id.String())

	_, ok = sessionIDFromPath("/v1/sessions/not-a-uuid/turn")
	assert.False(t, ok)

	_, ok = sessionIDFromPath("/health")
	assert.False(t, ok)
}
