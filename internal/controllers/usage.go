package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/rgorski/brief-analyzer/internal/middleware"
	"github.com/rgorski/brief-analyzer/internal/models"
)

// UsageController serves usage analytics derived from saved analyses.
type UsageController struct {
	usageService *models.UsageService
	log          logrus.FieldLogger
}

// NewUsageController creates a new UsageController.
func NewUsageController(usageService *models.UsageService, log logrus.FieldLogger) *UsageController {
	return &UsageController{
		usageService: usageService,
		log:          log,
	}
}

// GetUsage returns the caller's usage summary.
func (c *UsageController) GetUsage(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	summary, err := c.usageService.Summary(r.Context(), user.ID)
	if err != nil {
		c.log.WithField("user", user.ID).Errorf("failed to compute usage: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load usage")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
