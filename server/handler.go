// Package server implements the HTTP surface of the Oratio service.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oratiolabs/oratio/analysis"
	"github.com/oratiolabs/oratio/store"
)

// Handler implements all HTTP endpoints.
type Handler struct {
	orchestrator *analysis.Orchestrator
	store        *store.Store
	tokenTTL     time.Duration
	logger       *slog.Logger
}

// New creates a Handler.
func New(orchestrator *analysis.Orchestrator, st *store.Store, tokenTTL time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		orchestrator: orchestrator,
		store:        st,
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// Register mounts routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /auth/signup", h.signup)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("GET /auth/me", h.me)
	mux.HandleFunc("POST /analyze", h.analyze)
	mux.HandleFunc("GET /status", h.status)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// ---------- endpoints ----------

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.CreateUser(r.Context(), req.Email, req.Password)
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeErr(w, http.StatusBadRequest, "email already registered")
		return
	}
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	h.issueToken(w, r, user.ID)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.store.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		writeErr(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}
	if err != nil {
		h.logger.Error("login failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.issueToken(w, r, user.ID)
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, userID int64) {
	token, err := h.store.IssueToken(r.Context(), userID, h.tokenTTL)
	if err != nil {
		h.logger.Error("token issuance failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type analyzeRequest struct {
	Text string `json:"text"`
}

func (h *Handler) analyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}

	report, err := h.orchestrator.Analyze(r.Context(), req.Text)
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, analysis.ErrAllProvidersUnavailable):
		writeErr(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		h.logger.Error("analysis failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.orchestrator.State())
}

// ---------- helpers ----------

// currentUser resolves the bearer token on the request. On failure it
// writes a 401 response and returns ok=false.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (*store.User, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeErr(w, http.StatusUnauthorized, "not authenticated")
		return nil, false
	}
	token := strings.TrimPrefix(header, "Bearer ")

	user, err := h.store.UserForToken(r.Context(), token)
	switch {
	case errors.Is(err, store.ErrExpiredToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeErr(w, http.StatusUnauthorized, "token expired")
		return nil, false
	case errors.Is(err, store.ErrNotFound):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeErr(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	case err != nil:
		h.logger.Error("session lookup failed", "err", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return user, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
