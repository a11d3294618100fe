package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rgorski/brief-analyzer/internal/analysis"
)

// errorResponse is the uniform error body for the JSON API.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondAnalysisError maps orchestration failures onto HTTP statuses.
// Input problems are the caller's fault, configuration gaps mean the
// service cannot currently serve the model, and provider failures are an
// upstream problem.
func respondAnalysisError(w http.ResponseWriter, err *analysis.Error) {
	status := http.StatusInternalServerError
	switch err.Kind {
	case analysis.KindEmptyInput, analysis.KindUnknownModel:
		status = http.StatusUnprocessableEntity
	case analysis.KindMissingCredential, analysis.KindGatewayInitFailure:
		status = http.StatusServiceUnavailable
	case analysis.KindModelInvocationFailure:
		status = http.StatusBadGateway
	}
	respondJSON(w, status, errorResponse{Error: err.Message, Kind: string(err.Kind)})
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}
