package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/rgorski/brief-analyzer/internal/analysis"
	"github.com/rgorski/brief-analyzer/internal/middleware"
)

// AnalyzeController handles brief analysis requests.
type AnalyzeController struct {
	orchestrator *analysis.Orchestrator
	log          logrus.FieldLogger
}

// NewAnalyzeController creates a new AnalyzeController.
func NewAnalyzeController(orchestrator *analysis.Orchestrator, log logrus.FieldLogger) *AnalyzeController {
	return &AnalyzeController{
		orchestrator: orchestrator,
		log:          log,
	}
}

type analyzeRequest struct {
	Brief string `json:"brief"`
	Model string `json:"model"`
}

// PostAnalyze runs the full pipeline for one brief and returns the
// structured result. A persistence failure still returns 200; the body's
// saved flag and saveError field carry the difference.
func (c *AnalyzeController) PostAnalyze(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, aerr := c.orchestrator.AnalyzeBrief(r.Context(), req.Brief, req.Model, user.ID)
	if aerr != nil {
		c.log.WithFields(logrus.Fields{
			"user":  user.ID,
			"model": req.Model,
			"kind":  aerr.Kind,
		}).Warnf("analysis failed: %v", aerr)
		respondAnalysisError(w, aerr)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
