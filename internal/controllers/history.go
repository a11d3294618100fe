package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/rgorski/brief-analyzer/internal/middleware"
	"github.com/rgorski/brief-analyzer/internal/models"
)

// HistoryController serves saved analyses back to their owner.
type HistoryController struct {
	analysisService *models.AnalysisService
	log             logrus.FieldLogger
}

// NewHistoryController creates a new HistoryController.
func NewHistoryController(analysisService *models.AnalysisService, log logrus.FieldLogger) *HistoryController {
	return &HistoryController{
		analysisService: analysisService,
		log:             log,
	}
}

// GetHistory lists the caller's analyses, newest first.
func (c *HistoryController) GetHistory(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	summaries, err := c.analysisService.ByUser(r.Context(), user.ID, limit)
	if err != nil {
		c.log.WithField("user", user.ID).Errorf("failed to list analyses: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"analyses": summaries})
}

// GetAnalysis returns one saved analysis with its structured output
// reconstructed. Ownership is part of the lookup: an analysis belonging to
// someone else looks exactly like a missing one.
func (c *HistoryController) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	id := chi.URLParam(r, "id")

	detail, err := c.analysisService.ByID(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrAnalysisNotFound) {
			respondError(w, http.StatusNotFound, "analysis not found")
			return
		}
		c.log.WithField("analysis", id).Errorf("failed to load analysis: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load analysis")
		return
	}

	respondJSON(w, http.StatusOK, detail)
}

// DeleteAnalysis removes one of the caller's analyses and all its child
// rows.
func (c *HistoryController) DeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	id := chi.URLParam(r, "id")

	err := c.analysisService.Delete(r.Context(), id, user.ID)
	if err != nil {
		if errors.Is(err, models.ErrAnalysisNotFound) {
			respondError(w, http.StatusNotFound, "analysis not found")
			return
		}
		c.log.WithField("analysis", id).Errorf("failed to delete analysis: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to delete analysis")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
