package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/VitalsyncDev/vitalsync-web/internal/db"
	"github.com/VitalsyncDev/vitalsync-web/internal/logger"
	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

// CreateJournalRequest is the POST /api/journal body.
type CreateJournalRequest struct {
	EntryDate string  `json:"entry_date"`
	Category  string  `json:"category"`
	Content   string  `json:"content"`
	Rating    *int    `json:"rating,omitempty"`
	Tags      *string `json:"tags,omitempty"`
}

// UpdateJournalRequest is the PUT /api/journal/{id} body; omitted fields
// keep their current values.
type UpdateJournalRequest struct {
	EntryDate *string `json:"entry_date,omitempty"`
	Category  *string `json:"category,omitempty"`
	Content   *string `json:"content,omitempty"`
	Rating    *int    `json:"rating,omitempty"`
	Tags      *string `json:"tags,omitempty"`
}

func (s *Server) handleCreateJournalEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}
	entryDate, err := time.Parse("2006-01-02", req.EntryDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "entry_date must be YYYY-MM-DD")
		return
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	entry, err := s.db.CreateJournalEntry(r.Context(), &models.JournalEntry{
		EntryDate: entryDate,
		Category:  req.Category,
		Content:   req.Content,
		Rating:    req.Rating,
		Tags:      req.Tags,
	})
	if err != nil {
		logger.Error("creating journal entry failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create journal entry")
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleGetJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(w, r)
	if !ok {
		return
	}
	entry, err := s.db.GetJournalEntry(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, "journal entry not found")
		return
	}
	if err != nil {
		logger.Error("getting journal entry failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to get journal entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleListJournalEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 50
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "invalid parameter: limit")
			return
		}
		limit = n
	}
	offset := 0
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid parameter: offset")
			return
		}
		offset = n
	}

	entries, err := s.db.ListJournalEntries(r.Context(), q.Get("category"), limit, offset)
	if err != nil {
		logger.Error("listing journal entries failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list journal entries")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}

func (s *Server) handleUpdateJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(w, r)
	if !ok {
		return
	}

	var req UpdateJournalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.EntryDate != nil {
		if _, err := time.Parse("2006-01-02", *req.EntryDate); err != nil {
			respondError(w, http.StatusBadRequest, "entry_date must be YYYY-MM-DD")
			return
		}
	}
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		respondError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	entry, err := s.db.UpdateJournalEntry(r.Context(), id, db.JournalUpdate{
		EntryDate: req.EntryDate,
		Category:  req.Category,
		Content:   req.Content,
		Rating:    req.Rating,
		Tags:      req.Tags,
	})
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, "journal entry not found")
		return
	}
	if err != nil {
		logger.Error("updating journal entry failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update journal entry")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteJournalEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(w, r)
	if !ok {
		return
	}
	err := s.db.DeleteJournalEntry(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		respondError(w, http.StatusNotFound, "journal entry not found")
		return
	}
	if err != nil {
		logger.Error("deleting journal entry failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to delete journal entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func journalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "invalid journal entry ID")
		return 0, false
	}
	return id, true
}
