package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/worldsim/internal/queue"
	"github.com/jwebster45206/worldsim/internal/session"
	"github.com/jwebster45206/worldsim/internal/turnengine"
	"github.com/jwebster45206/worldsim/pkg/parser"
	"github.com/jwebster45206/worldsim/pkg/world"
)

// SessionHandler serves POST /v1/sessions: start a new play session
// from a named world file.
type SessionHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewSessionHandler(sessions *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

type createSessionRequest struct {
	World string `json:"world"`
}

type createSessionResponse struct {
	SessionID string         `json:"session_id"`
	Look      locationSketch `json:"look"`
}

type locationSketch struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.World == "" {
		http.Error(w, "request body must include a non-empty \"world\" field", http.StatusBadRequest)
		return
	}

	id, engine, err := h.sessions.Create(r.Context(), req.World)
	if err != nil {
		h.logger.Error("failed to create session", "error", err, "world", req.World)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	resp := createSessionResponse{SessionID: id.String()}
	if loc, ok := engine.Accessor().GetCurrentLocation(world.PlayerID); ok {
		resp.Look = locationSketch{Name: loc.Name, Description: loc.Description}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// TurnHandler serves POST /v1/sessions/{id}/turn: play one input
// against a session's Engine, then enqueues a background tick so the
// session keeps advancing if no further turn follows soon.
type TurnHandler struct {
	sessions *session.Manager
	queue    *queue.Client
	logger   *slog.Logger
}

func NewTurnHandler(sessions *session.Manager, queueClient *queue.Client, logger *slog.Logger) *TurnHandler {
	return &TurnHandler{sessions: sessions, queue: queueClient, logger: logger}
}

type turnRequest struct {
	Input string `json:"input"`
}

type turnResponse struct {
	Success bool     `json:"success"`
	Primary string   `json:"primary"`
	Beats   []string `json:"beats,omitempty"`
	Phases  []string `json:"phases,omitempty"`
}

func (h *TurnHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := sessionIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}

	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		http.Error(w, "request body must include a non-empty \"input\" field", http.StatusBadRequest)
		return
	}

	engine, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.logger.Warn("session not found", "session_id", id, "error", err)
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	result, err := engine.Turn(parseContext(engine), req.Input)
	if err != nil {
		h.writeTurnError(w, err)
		return
	}

	if err := h.sessions.Persist(r.Context(), id); err != nil {
		h.logger.Error("failed to persist session", "error", err, "session_id", id)
	}
	if err := h.queue.Enqueue(r.Context(), id); err != nil {
		h.logger.Warn("failed to enqueue background tick", "error", err, "session_id", id)
	}

	writeJSON(w, turnResponse{
		Success: result.Turn.Success,
		Primary: result.Turn.Narration.Primary,
		Beats:   result.Turn.Narration.SecondaryBeats,
		Phases:  result.Phases,
	})
}

func (h *TurnHandler) writeTurnError(w http.ResponseWriter, err error) {
	writeJSON(w, turnResponse{Success: false, Primary: err.Error()})
}

// parseContext builds the reference parser's context from the actor's
// current location exits.
func parseContext(engine *turnengine.Engine) parser.Context {
	loc, ok := engine.Accessor().GetCurrentLocation(world.PlayerID)
	if !ok {
		return parser.Context{}
	}
	exits := make([]string, 0, len(loc.Exits))
	for dir := range loc.Exits {
		exits = append(exits, dir)
	}
	return parser.Context{Exits: exits}
}

func sessionIDFromPath(path string) (uuid.UUID, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	for i, part := range parts {
		if part == "sessions" && i+1 < len(parts) {
			id, err := uuid.Parse(parts[i+1])
			if err != nil {
				return uuid.Nil, false
			}
			return id, true
		}
	}
	return uuid.Nil, false
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
