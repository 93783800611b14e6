package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/VitalsyncDev/vitalsync-web/internal/db"
	"github.com/VitalsyncDev/vitalsync-web/internal/logger"
	"github.com/VitalsyncDev/vitalsync-web/internal/models"
)

const defaultDashboardDays = 30

// parseDateWindow resolves the shared query parameters into a date
// range. Either ?days=N (counting back from today) or explicit ?start=
// and ?end= in YYYY-MM-DD form; days wins when both appear.
func parseDateWindow(r *http.Request) (start, end *time.Time, err error) {
	q := r.URL.Query()

	if days := q.Get("days"); days != "" {
		n, convErr := strconv.Atoi(days)
		if convErr != nil || n < 1 {
			return nil, nil, errBadParam("days")
		}
		now := time.Now().UTC()
		e := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		s := e.AddDate(0, 0, -(n - 1))
		return &s, &e, nil
	}

	if v := q.Get("start"); v != "" {
		t, convErr := time.Parse("2006-01-02", v)
		if convErr != nil {
			return nil, nil, errBadParam("start")
		}
		start = &t
	}
	if v := q.Get("end"); v != "" {
		t, convErr := time.Parse("2006-01-02", v)
		if convErr != nil {
			return nil, nil, errBadParam("end")
		}
		end = &t
	}
	return start, end, nil
}

type paramError string

func (e paramError) Error() string { return "invalid parameter: " + string(e) }

func errBadParam(name string) error { return paramError(name) }

// DashboardResponse is the combined recent-window payload the frontend
// renders in one request.
type DashboardResponse struct {
	Start      time.Time                `json:"start"`
	End        time.Time                `json:"end"`
	Activities []models.Activity        `json:"activities"`
	Sleep      []models.Sleep           `json:"sleep"`
	Daily      []models.DailySummary    `json:"daily"`
	HeartRate  []models.HeartRate       `json:"heart_rate"`
	Body       []models.BodyComposition `json:"body"`
}

// handleDashboard returns every category's rows for one window. Defaults
// to the last 30 days.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if start == nil || end == nil {
		now := time.Now().UTC()
		e := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		s := e.AddDate(0, 0, -(defaultDashboardDays - 1))
		start, end = &s, &e
	}

	ctx := r.Context()
	window := db.DateRange{Start: start, End: end, Limit: 1000}

	activities, err := s.db.ListActivities(ctx, db.ActivityFilter{Start: start, End: end, Limit: 1000})
	if err != nil {
		logger.Error("dashboard: listing activities failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	sleep, err := s.db.ListSleep(ctx, window)
	if err != nil {
		logger.Error("dashboard: listing sleep failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	daily, err := s.db.ListDailySummaries(ctx, window)
	if err != nil {
		logger.Error("dashboard: listing daily summaries failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	heartRate, err := s.db.ListHeartRates(ctx, window)
	if err != nil {
		logger.Error("dashboard: listing heart rates failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	body, err := s.db.ListBodyCompositions(ctx, window)
	if err != nil {
		logger.Error("dashboard: listing body composition failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	respondJSON(w, http.StatusOK, DashboardResponse{
		Start:      *start,
		End:        *end,
		Activities: activities,
		Sleep:      sleep,
		Daily:      daily,
		HeartRate:  heartRate,
		Body:       body,
	})
}

// handleListActivities supports date window, type filter, and paging.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filter := db.ActivityFilter{Start: start, End: end}
	if v := r.URL.Query().Get("type"); v != "" {
		filter.Types = strings.Split(v, ",")
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			respondError(w, http.StatusBadRequest, errBadParam("limit").Error())
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 0 {
			respondError(w, http.StatusBadRequest, errBadParam("offset").Error())
			return
		}
		filter.Offset = n
	}

	activities, err := s.db.ListActivities(r.Context(), filter)
	if err != nil {
		logger.Error("listing activities failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"activities": activities,
	})
}

func (s *Server) listWindow(r *http.Request) (db.DateRange, error) {
	start, end, err := parseDateWindow(r)
	if err != nil {
		return db.DateRange{}, err
	}
	window := db.DateRange{Start: start, End: end}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 1 {
			return db.DateRange{}, errBadParam("limit")
		}
		window.Limit = n
	}
	return window, nil
}

func (s *Server) handleListSleep(w http.ResponseWriter, r *http.Request) {
	window, err := s.listWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.db.ListSleep(r.Context(), window)
	if err != nil {
		logger.Error("listing sleep failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list sleep")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"sleep": rows})
}

func (s *Server) handleListDaily(w http.ResponseWriter, r *http.Request) {
	window, err := s.listWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.db.ListDailySummaries(r.Context(), window)
	if err != nil {
		logger.Error("listing daily summaries failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list daily summaries")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"daily": rows})
}

func (s *Server) handleListHeartRate(w http.ResponseWriter, r *http.Request) {
	window, err := s.listWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.db.ListHeartRates(r.Context(), window)
	if err != nil {
		logger.Error("listing heart rates failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list heart rates")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"heart_rate": rows})
}

func (s *Server) handleListBody(w http.ResponseWriter, r *http.Request) {
	window, err := s.listWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	rows, err := s.db.ListBodyCompositions(r.Context(), window)
	if err != nil {
		logger.Error("listing body composition failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list body composition")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"body": rows})
}
