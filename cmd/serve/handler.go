package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	ai "github.com/spetersoncode/postflow"
	"github.com/spetersoncode/postflow/workflow"
)

// Handler exposes the workflow engine over HTTP.
type Handler struct {
	engine *workflow.Engine
}

// NewHandler creates an HTTP handler around an engine.
func NewHandler(engine *workflow.Engine) *Handler {
	return &Handler{engine: engine}
}

// Register attaches the API routes to a mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/generate-post", h.handleGenerate)
	mux.HandleFunc("POST /api/approve-post", h.handleDecide)
	mux.HandleFunc("GET /api/sessions/{id}", h.handleSession)
}

type generateRequest struct {
	Topic         string `json:"topic"`
	Tone          string `json:"tone,omitempty"`
	Style         string `json:"style,omitempty"`
	Preferences   string `json:"preferences,omitempty"`
	IncludeImage  bool   `json:"includeImage,omitempty"`
	UseMultiAgent bool   `json:"useMultiAgent,omitempty"`
}

type decideRequest struct {
	SessionID string `json:"sessionId"`
	Approved  bool   `json:"approved"`
	Feedback  string `json:"feedback,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("invalid generate request", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if len(topic) < ai.MinTopicLength || len(topic) > ai.MaxTopicLength {
		writeError(w, http.StatusBadRequest,
			fmt.Errorf("topic must be between %d and %d characters", ai.MinTopicLength, ai.MaxTopicLength))
		return
	}

	log := slog.With("topic", topic, "multi_agent", req.UseMultiAgent)
	log.Info("generating post")

	session, err := h.engine.Generate(r.Context(), ai.PostInput{
		Topic:         topic,
		Tone:          req.Tone,
		Style:         req.Style,
		Preferences:   req.Preferences,
		IncludeImage:  req.IncludeImage,
		UseMultiAgent: req.UseMultiAgent,
	})
	if err != nil {
		log.Warn("generation failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	log.Info("draft ready", "session_id", session.ID)
	writeJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req decideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("invalid decision request", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, errors.New("sessionId is required"))
		return
	}

	log := slog.With("session_id", req.SessionID, "approved", req.Approved)
	log.Info("processing decision")

	session, err := h.engine.Decide(r.Context(), req.SessionID, workflow.Decision{
		Approved: req.Approved,
		Feedback: req.Feedback,
	})
	if err != nil {
		log.Warn("decision failed", "error", err)
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	session, err := h.engine.Session(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// statusFor maps workflow errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case ai.IsValidation(err):
		return http.StatusBadRequest
	case ai.IsNotFound(err):
		return http.StatusNotFound
	case ai.IsConflict(err):
		return http.StatusConflict
	case ai.IsTransient(err):
		return http.StatusServiceUnavailable
	case ai.IsPermanent(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
