package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rgorski/brief-analyzer/internal/registry"
)

// Usage is the token accounting a provider reports for one call. Providers
// that omit usage leave the counts at zero; that is never an error by itself.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// GatewayRequest is what the orchestrator hands a provider gateway.
type GatewayRequest struct {
	ModelID      string
	SystemPrompt string
	UserPrompt   string
	Schema       json.RawMessage
}

// GatewayResult is a successful provider response: a schema-conforming
// analysis plus reported usage.
type GatewayResult struct {
	Analysis *BriefAnalysis
	Usage    Usage
}

// Gateway invokes one provider's model with an enforced output schema.
// Implementations must reject responses they cannot coerce to the schema.
type Gateway interface {
	Invoke(ctx context.Context, req GatewayRequest) (*GatewayResult, error)
}

// GatewayFactory builds a gateway for a provider from its credential.
type GatewayFactory func(provider registry.ProviderID, credential string) (Gateway, error)

// CredentialSource looks up the API key configured for a provider. Absence
// is a first-class precondition failure, checked before any network call.
type CredentialSource interface {
	Credential(provider registry.ProviderID) (string, bool)
}

// Record is the persisted form of one completed analysis, handed to the
// store as a single atomic unit.
type Record struct {
	CallerID       string
	Brief          string
	Title          string
	ModelID        string
	ModelName      string
	Provider       string
	InputTokens    int
	OutputTokens   int
	TotalTokens    int
	EstimatedCost  float64
	LatencySeconds float64
	Analysis       *BriefAnalysis
}

// Store persists completed analyses. Save must write the parent row and all
// child rows atomically and return the new record id.
type Store interface {
	Save(ctx context.Context, rec *Record) (string, error)
}

// Result is the in-memory outcome of one successful orchestration call.
type Result struct {
	ID             string         `json:"analysisId,omitempty"`
	Analysis       *BriefAnalysis `json:"analysis"`
	ModelID        string         `json:"model"`
	Provider       string         `json:"provider"`
	InputTokens    int            `json:"inputTokens"`
	OutputTokens   int            `json:"outputTokens"`
	TotalTokens    int            `json:"totalTokens"`
	EstimatedCost  float64        `json:"estimatedCost"`
	LatencySeconds float64        `json:"latency"`
	Saved          bool           `json:"saved"`
	// SaveError is set when the analysis succeeded but persistence did not.
	// The result is still usable; it just was not recorded.
	SaveError string `json:"saveError,omitempty"`
}

// MaxBriefLength bounds the accepted brief size. Larger briefs would blow
// the context window of the smallest catalog models anyway.
const MaxBriefLength = 100_000

// Orchestrator runs the full brief-analysis pipeline: validate, resolve,
// invoke, measure, price, persist. It holds no mutable state; concurrent
// calls are independent.
type Orchestrator struct {
	registry *registry.Registry
	creds    CredentialSource
	gateways GatewayFactory
	store    Store
	log      logrus.FieldLogger
}

func NewOrchestrator(
	reg *registry.Registry,
	creds CredentialSource,
	gateways GatewayFactory,
	store Store,
	log logrus.FieldLogger,
) *Orchestrator {
	return &Orchestrator{
		registry: reg,
		creds:    creds,
		gateways: gateways,
		store:    store,
		log:      log,
	}
}

// AnalyzeBrief turns a free-text brief into a structured breakdown via the
// requested model. Preconditions are checked in order and short-circuit
// before any network call. On success the result is persisted; a persistence
// failure is reported on the result (Saved=false) rather than discarding an
// analysis the caller already paid for.
func (o *Orchestrator) AnalyzeBrief(ctx context.Context, brief, modelID, callerID string) (*Result, *Error) {
	if strings.TrimSpace(brief) == "" {
		return nil, newError(KindEmptyInput, "Brief cannot be empty.")
	}
	if len(brief) > MaxBriefLength {
		return nil, newError(KindEmptyInput, fmt.Sprintf("Brief exceeds the maximum length of %d characters.", MaxBriefLength))
	}

	model, ok := o.registry.Resolve(modelID)
	if !ok {
		return nil, newError(KindUnknownModel, fmt.Sprintf("Unknown model: %s", modelID))
	}

	credential, ok := o.creds.Credential(model.Provider)
	if !ok {
		return nil, newError(KindMissingCredential,
			fmt.Sprintf("Missing API key for provider %q. Set the correct environment variable.", model.Provider))
	}

	gateway, err := o.gateways(model.Provider, credential)
	if err != nil {
		return nil, wrapError(KindGatewayInitFailure, "Failed to initialize model.", err)
	}

	req := GatewayRequest{
		ModelID:      modelID,
		SystemPrompt: SystemPrompt,
		UserPrompt:   brief,
		Schema:       OutputSchema(),
	}

	// Latency covers the gateway call only, not validation or persistence.
	start := time.Now()
	out, err := gateway.Invoke(ctx, req)
	latency := time.Since(start).Seconds()

	if err != nil {
		// The provider message is kept verbatim for operator diagnosis.
		return nil, wrapError(KindModelInvocationFailure, err.Error(), err)
	}
	if out == nil || out.Analysis == nil {
		return nil, newError(KindModelInvocationFailure, "Model returned empty output.")
	}

	inputTokens := out.Usage.InputTokens
	outputTokens := out.Usage.OutputTokens
	totalTokens := inputTokens + outputTokens
	estimatedCost := o.registry.EstimateCost(modelID, inputTokens, outputTokens)

	result := &Result{
		Analysis:       out.Analysis,
		ModelID:        modelID,
		Provider:       string(model.Provider),
		InputTokens:    inputTokens,
		OutputTokens:   outputTokens,
		TotalTokens:    totalTokens,
		EstimatedCost:  estimatedCost,
		LatencySeconds: latency,
	}

	rec := &Record{
		CallerID:       callerID,
		Brief:          brief,
		Title:          out.Analysis.ProjectSummary.Title,
		ModelID:        modelID,
		ModelName:      model.DisplayName,
		Provider:       string(model.Provider),
		InputTokens:    inputTokens,
		OutputTokens:   outputTokens,
		TotalTokens:    totalTokens,
		EstimatedCost:  estimatedCost,
		LatencySeconds: latency,
		Analysis:       out.Analysis,
	}

	id, err := o.store.Save(ctx, rec)
	if err != nil {
		o.log.WithError(err).WithFields(logrus.Fields{
			"caller": callerID,
			"model":  modelID,
		}).Error("analysis completed but could not be saved")
		result.SaveError = "Your result is shown but could not be saved."
		return result, nil
	}

	result.ID = id
	result.Saved = true

	o.log.WithFields(logrus.Fields{
		"analysis": id,
		"model":    modelID,
		"tokens":   totalTokens,
		"latency":  latency,
	}).Info("brief analyzed")

	return result, nil
}
