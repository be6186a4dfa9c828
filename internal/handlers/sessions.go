package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/session"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/history"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/stats"
	"github.com/jwebster45206/realm-engine/pkg/storage"
)

// CreateSessionRequest names the world preset a new game starts from.
type CreateSessionRequest struct {
	World string `json:"world"`
}

// TurnRequest is one player action.
type TurnRequest struct {
	Message string `json:"message"`
}

// SessionView is the read model of a game.
type SessionView struct {
	ID            uuid.UUID            `json:"id"`
	KnowledgeBase *state.KnowledgeBase `json:"knowledgeBase"`
	Stats         stats.Effective      `json:"stats"`
	PageCount     int                  `json:"pageCount"`
	RollbackTurns []int                `json:"rollbackTurns"`
}

// PageView is one page of the transcript.
type PageView struct {
	Page     int            `json:"page"`
	Summary  string         `json:"summary,omitempty"`
	Messages []chat.Message `json:"messages"`
}

type SessionHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewSessionHandler(sessions *session.Manager, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessions: sessions, logger: logger}
}

// Register adds the session routes to mux:
//
//	POST   /v1/sessions                 - start a game
//	GET    /v1/sessions/{id}            - read a game
//	DELETE /v1/sessions/{id}            - delete a game
//	POST   /v1/sessions/{id}/turns      - play a turn
//	POST   /v1/sessions/{id}/rollback   - undo the last turn
//	GET    /v1/sessions/{id}/stats      - effective stats
//	GET    /v1/sessions/{id}/pages/{n}  - one transcript page
//	POST   /v1/sessions/{id}/avatars    - apply finished portraits
func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/sessions", h.handleCreate)
	mux.HandleFunc("GET /v1/sessions/{id}", h.withSession(h.handleRead))
	mux.HandleFunc("DELETE /v1/sessions/{id}", h.handleDelete)
	mux.HandleFunc("POST /v1/sessions/{id}/turns", h.withSession(h.handleTurn))
	mux.HandleFunc("POST /v1/sessions/{id}/rollback", h.withSession(h.handleRollback))
	mux.HandleFunc("GET /v1/sessions/{id}/stats", h.withSession(h.handleStats))
	mux.HandleFunc("GET /v1/sessions/{id}/pages/{page}", h.withSession(h.handlePage))
	mux.HandleFunc("POST /v1/sessions/{id}/avatars", h.withSession(h.handleAvatars))
}

type sessionHandlerFunc func(w http.ResponseWriter, r *http.Request, s *session.Session)

func (h *SessionHandler) withSession(next sessionHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
			return
		}
		s, err := h.sessions.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				writeError(w, h.logger, http.StatusNotFound, "Session not found")
				return
			}
			h.logger.Error("Failed to load session", "session_id", id, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
			return
		}
		next(w, r, s)
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.World == "" || strings.Contains(req.World, "..") || strings.Contains(req.World, "/") {
		writeError(w, h.logger, http.StatusBadRequest, "A world preset filename is required")
		return
	}

	s, err := h.sessions.Create(r.Context(), req.World)
	if err != nil {
		if errors.Is(err, storage.ErrWorldNotFound) {
			writeError(w, h.logger, http.StatusNotFound, "World not found")
			return
		}
		h.logger.Error("Failed to create session", "world", req.World, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}
	h.writeSession(w, http.StatusCreated, s)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if _, err := s.RefreshAvatars(r.Context()); err != nil {
		h.logger.Warn("Failed to refresh avatars", "session_id", s.ID, "error", err)
	}
	h.writeSession(w, http.StatusOK, s)
}

func (h *SessionHandler) writeSession(w http.ResponseWriter, status int, s *session.Session) {
	kb, err := s.Snapshot()
	if err != nil {
		h.logger.Error("Failed to snapshot session", "session_id", s.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read session")
		return
	}
	writeJSON(w, h.logger, status, SessionView{
		ID:            s.ID,
		KnowledgeBase: kb,
		Stats:         stats.EffectiveStats(kb),
		PageCount:     s.PageCount(),
		RollbackTurns: s.RollbackTurns(),
	})
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleTurn(w http.ResponseWriter, r *http.Request, s *session.Session) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	pi := chat.PlayerInput{SessionID: s.ID, Message: req.Message}
	if err := pi.Validate(); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.PlayTurn(r.Context(), req.Message)
	if err != nil {
		h.logger.Error("Failed to play turn", "session_id", s.ID, "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "The narrator could not continue the story; nothing was changed")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, out)
}

func (h *SessionHandler) handleRollback(w http.ResponseWriter, r *http.Request, s *session.Session) {
	if err := s.Rollback(r.Context()); err != nil {
		if errors.Is(err, history.ErrNoHistory) {
			writeError(w, h.logger, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to roll back", "session_id", s.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to roll back")
		return
	}
	h.writeSession(w, http.StatusOK, s)
}

func (h *SessionHandler) handleStats(w http.ResponseWriter, r *http.Request, s *session.Session) {
	writeJSON(w, h.logger, http.StatusOK, s.EffectiveStats())
}

func (h *SessionHandler) handlePage(w http.ResponseWriter, r *http.Request, s *session.Session) {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || page < 1 || page > s.PageCount() {
		writeError(w, h.logger, http.StatusNotFound, "Page not found")
		return
	}
	view := PageView{Page: page, Messages: s.MessagesForPage(page)}
	if view.Messages == nil {
		view.Messages = []chat.Message{}
	}
	view.Summary = s.PageSummary(page)
	writeJSON(w, h.logger, http.StatusOK, view)
}

// AvatarRefreshResponse reports how many portraits were applied.
type AvatarRefreshResponse struct {
	Applied int `json:"applied"`
}

func (h *SessionHandler) handleAvatars(w http.ResponseWriter, r *http.Request, s *session.Session) {
	n, err := s.RefreshAvatars(r.Context())
	if err != nil {
		h.logger.Error("Failed to refresh avatars", "session_id", s.ID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to refresh avatars")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, AvatarRefreshResponse{Applied: n})
}
