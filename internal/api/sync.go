package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/VitalsyncDev/vitalsync-web/internal/logger"
	"github.com/VitalsyncDev/vitalsync-web/internal/sync"
)

// handleSyncAll kicks off a full background sync of every category. The
// response returns immediately; progress is visible via /api/sync/status.
func (s *Server) handleSyncAll(w http.ResponseWriter, r *http.Request) {
	s.engine.TriggerAll()
	logger.Info("full sync triggered")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status": "sync started",
	})
}

// handleSyncCategory kicks off a background sync for one category.
// Returns 409 when that category is already syncing.
func (s *Server) handleSyncCategory(w http.ResponseWriter, r *http.Request) {
	cat, err := sync.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, started := s.engine.Trigger(cat)
	if !started {
		respondError(w, http.StatusConflict, "sync already in progress")
		return
	}

	logger.Info("category sync triggered", "category", string(cat))
	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":   "sync started",
		"category": string(cat),
	})
}

// handleSyncStatus reports per-category sync state, merging durable
// checkpoints with any runs live in this process.
func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	entries, err := s.engine.StatusReport(r.Context())
	if err != nil {
		logger.Error("failed to read sync status", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to read sync status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"categories": entries,
	})
}
