package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/llm"
	"github.com/jstiltner/document-understanding/internal/model"
)

// Extractor runs one extraction attempt: build the prompt, call the LLM,
// parse, score, gate. It holds no mutable state and is safe for concurrent
// use.
type Extractor struct {
	registry *llm.Registry
	provider string
	model    string
	gate     GateConfig
}

// NewExtractor wires an Extractor against the given provider registry.
func NewExtractor(registry *llm.Registry, provider, modelID string, gate GateConfig) *Extractor {
	return &Extractor{
		registry: registry,
		provider: provider,
		model:    modelID,
		gate:     gate,
	}
}

// ModelVersion combines provider, model, and prompt scheme into the opaque
// partition key used by the performance tracker.
func ModelVersion(provider, modelID string) string {
	return fmt.Sprintf("%s/%s/%s", provider, modelID, PromptSchemeVersion)
}

// Extract runs the full attempt against the OCR text. Provider and upstream
// failures are returned as errors (the caller owns retry and status
// transitions); malformed LLM output is not an error, it produces an
// empty field map that the gate routes to review.
func (e *Extractor) Extract(ctx context.Context, ocrText string, catalog *model.FieldCatalog) (*model.ExtractionResult, error) {
	client, err := e.registry.Provider(e.provider)
	if err != nil {
		return nil, err
	}

	required := catalog.Required()
	optional := catalog.Optional()
	prompt := BuildPrompt(ocrText, required, optional)

	raw, err := client.Generate(ctx, prompt, e.model)
	if err != nil {
		return nil, err
	}

	fields := ParseResponse(raw, catalog)
	scores := ScoreFields(fields, catalog)
	review := RequiresReview(fields, scores, required, e.gate)

	zap.L().Info("extraction attempt",
		zap.String("provider", e.provider),
		zap.String("model", e.model),
		zap.Int("fields_extracted", len(fields)),
		zap.Float64("overall_confidence", scores[model.OverallKey]),
		zap.Bool("requires_review", review),
	)

	return &model.ExtractionResult{
		Fields:         fields,
		Confidence:     scores,
		RequiresReview: review,
		Provider:       e.provider,
		Model:          e.model,
		ModelVersion:   ModelVersion(e.provider, e.model),
		RawResponse:    raw,
	}, nil
}
