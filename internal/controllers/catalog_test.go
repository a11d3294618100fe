package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgorski/brief-analyzer/internal/registry"
)

func TestGetModelsListsCatalog(t *testing.T) {
	c := NewCatalogController(registry.Default())

	req := httptest.NewRequest("GET", "/api/models", nil)
	rec := httptest.NewRecorder()
	c.GetModels(rec, req)

	require.Equal(t, 200, rec.Code)

	var body struct {
		Providers []catalogProvider `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	require.Len(t, body.Providers, 3)
	assert.Equal(t, registry.ProviderOpenAI, body.Providers[0].ID)

	for _, p := range body.Providers {
		require.NotEmpty(t, p.Models, "provider %s has no models", p.ID)
		for _, m := range p.Models {
			assert.NotEmpty(t, m.ID)
			assert.NotEmpty(t, m.Name)
			assert.Greater(t, m.EstimatedCostPer, 0.0, "model %s", m.ID)
		}
	}
}
