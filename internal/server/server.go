// Package server exposes the dashboard HTTP API: event listings, sync
// control with websocket progress, the chat assistant and health/metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/metrics"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/service"
)

const defaultEventLimit = 50

// EventLister is the read path the events and picks endpoints need
type EventLister interface {
	EventsWithProbabilities(ctx context.Context, league string, limit int) ([]*service.EventView, error)
	TopPicks(ctx context.Context, limit int) ([]*service.PickView, error)
}

// LeagueSyncer runs the sync pipeline for one league
type LeagueSyncer interface {
	SyncLeague(ctx context.Context, leagueName string, count int, progressFn service.ProgressFunc) (*service.SyncResult, error)
}

// QuestionAnswerer answers fixture questions
type QuestionAnswerer interface {
	Ask(ctx context.Context, eventID uuid.UUID, question string) (string, error)
}

// Server is the dashboard HTTP server
type Server struct {
	cfg    *config.Config
	reader EventLister
	sync   LeagueSyncer
	chat   QuestionAnswerer
	hub    *Hub
	logger *logrus.Logger

	httpServer  *http.Server
	syncRunning atomic.Bool
}

// NewServer creates the dashboard server
func NewServer(cfg *config.Config, reader EventLister, syncOrch LeagueSyncer, chat QuestionAnswerer, hub *Hub, logger *logrus.Logger) *Server {
	return &Server{
		cfg:    cfg,
		reader: reader,
		sync:   syncOrch,
		chat:   chat,
		hub:    hub,
		logger: logger,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", s.handleEvents)
	mux.HandleFunc("/api/picks", s.handlePicks)
	mux.HandleFunc("/api/sync", s.handleSync)
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.hub.HandleWS)
	if s.cfg.Metrics.Enabled {
		mux.Handle(s.cfg.Metrics.Path, metrics.Handler())
	}
	return mux
}

// Start runs the server until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.WithField("port", s.cfg.Server.Port).Info("Dashboard server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleEvents serves GET /api/events?league=&limit=
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	views, err := s.reader.EventsWithProbabilities(r.Context(), r.URL.Query().Get("league"), limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list events")
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"events": views})
}

// handlePicks serves GET /api/picks?limit= with the strongest
// high-confidence estimates for events that have not kicked off
func (s *Server) handlePicks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	picks, err := s.reader.TopPicks(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list picks")
		writeError(w, http.StatusInternalServerError, "failed to list picks")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"picks": picks})
}

type syncRequest struct {
	League string `json:"league"`
	Count  int    `json:"count"`
}

// handleSync serves POST /api/sync, streaming progress over the websocket
// hub while the sync runs. Only one sync runs at a time.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.League == "" {
		writeError(w, http.StatusBadRequest, "league is required")
		return
	}
	if req.Count <= 0 {
		req.Count = 5
	}

	if !s.syncRunning.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, "a sync is already running")
		return
	}
	defer s.syncRunning.Store(false)

	result, err := s.sync.SyncLeague(r.Context(), req.League, req.Count, s.hub.Broadcast)
	if err != nil {
		s.logger.WithError(err).WithField("league", req.League).Error("Sync failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type chatRequest struct {
	EventID  string `json:"event_id"`
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// handleChat serves POST /api/chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "event_id must be a UUID")
		return
	}

	answer, err := s.chat.Ask(r.Context(), eventID, req.Question)
	if errors.Is(err, models.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("Chat request failed")
		writeError(w, http.StatusInternalServerError, "chat request failed")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
}

// handleHealth serves GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   s.cfg.App.Name,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
