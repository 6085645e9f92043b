package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bobmcallan/foresight/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Pipeline
	mux.HandleFunc("/api/news/scrape", s.handleNewsScrape)
	mux.HandleFunc("/api/news/runs/", s.handleRunStatus)

	// Events
	mux.HandleFunc("/api/events/upcoming", s.handleUpcomingEvents)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleNewsScrape handles POST /api/news/scrape. It starts a detached
// pipeline run and returns its handle immediately; progress is polled
// via /api/news/runs/{id}.
func (s *Server) handleNewsScrape(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		FeedURL string `json:"feed_url"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	feedURL := req.FeedURL
	if feedURL == "" {
		feedURL = s.app.Config.Pipeline.FeedURL
	}

	handle := s.app.PipelineService.StartRun(feedURL)

	s.logger.Info().Str("run_id", handle.ID).Str("feed", feedURL).Msg("Pipeline run started via HTTP")
	WriteJSON(w, http.StatusAccepted, handle.Snapshot())
}

// handleRunStatus handles GET /api/news/runs/{id}.
func (s *Server) handleRunStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	id := PathParam(r, "/api/news/runs/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Run id is required")
		return
	}

	handle, ok := s.app.PipelineService.GetRun(id)
	if !ok {
		WriteError(w, http.StatusNotFound, "Run not found: "+id)
		return
	}

	WriteJSON(w, http.StatusOK, handle.Snapshot())
}

// handleUpcomingEvents handles GET /api/events/upcoming.
func (s *Server) handleUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	from := time.Now().Truncate(24 * time.Hour)
	events, err := s.app.Storage.Events().ListUpcoming(r.Context(), from)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Error listing events: "+err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}
