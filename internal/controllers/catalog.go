package controllers

import (
	"net/http"

	"github.com/rgorski/brief-analyzer/internal/registry"
)

// CatalogController exposes the model catalog to clients so they can offer
// a model picker without hardcoding ids or prices.
type CatalogController struct {
	registry *registry.Registry
}

// NewCatalogController creates a new CatalogController.
func NewCatalogController(reg *registry.Registry) *CatalogController {
	return &CatalogController{registry: reg}
}

type catalogModel struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	ContextSize      int              `json:"contextSize"`
	ContextLabel     string           `json:"contextLabel"`
	Pricing          registry.Pricing `json:"pricing"`
	EstimatedCostPer float64          `json:"estimatedCostPerRequest"`
}

type catalogProvider struct {
	ID     registry.ProviderID `json:"id"`
	Name   string              `json:"name"`
	Models []catalogModel      `json:"models"`
}

// GetModels lists providers and their models in catalog order, each with a
// typical-request cost estimate.
func (c *CatalogController) GetModels(w http.ResponseWriter, r *http.Request) {
	providers := c.registry.Providers()
	out := make([]catalogProvider, 0, len(providers))

	for _, p := range providers {
		cp := catalogProvider{ID: p.ID, Name: p.Name, Models: []catalogModel{}}
		for _, m := range c.registry.ModelsByProvider(p.ID) {
			cp.Models = append(cp.Models, catalogModel{
				ID:               m.ID,
				Name:             m.DisplayName,
				ContextSize:      m.ContextSize,
				ContextLabel:     m.ContextLabel,
				Pricing:          m.Pricing,
				EstimatedCostPer: c.registry.EstimatePerRequestCost(m.ID),
			})
		}
		out = append(out, cp)
	}

	respondJSON(w, http.StatusOK, map[string]any{"providers": out})
}
