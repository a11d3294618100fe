package registry

// Assumed token counts for the pre-flight estimate shown in the model picker
// before any call is made.
const (
	estimateInputTokens  = 2000
	estimateOutputTokens = 2000
)

// EstimateCost computes the cost of a call from measured token counts.
// Unknown models cost 0; this never fails. The result is kept at full
// precision and only rounded at display time.
func (r *Registry) EstimateCost(modelID string, inputTokens, outputTokens int) float64 {
	m, ok := r.Resolve(modelID)
	if !ok {
		return 0
	}
	return float64(inputTokens)*m.Pricing.InputPerToken +
		float64(outputTokens)*m.Pricing.OutputPerToken
}

// EstimatePerRequestCost returns a rough per-request cost assuming ~2k input
// and ~2k output tokens. Advisory only; not comparable to the measured
// post-call cost.
func (r *Registry) EstimatePerRequestCost(modelID string) float64 {
	return r.EstimateCost(modelID, estimateInputTokens, estimateOutputTokens)
}
