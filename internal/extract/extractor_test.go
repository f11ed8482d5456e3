package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstiltner/document-understanding/internal/llm"
	"github.com/jstiltner/document-understanding/internal/model"
)

// fakeLLM returns a canned response and records the prompt it was given.
type fakeLLM struct {
	response string
	err      error
	prompt   string
	model    string
}

func (f *fakeLLM) Generate(ctx context.Context, prompt, model string) (string, error) {
	f.prompt = prompt
	f.model = model
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func extractorCatalog() *model.FieldCatalog {
	return model.NewFieldCatalog([]model.FieldDefinition{
		{Name: "member_id", DisplayName: "Member ID", Type: model.FieldTypeText, Required: true, ValidationPattern: `^[A-Z]{2}\d{8}$`, Active: true},
		{Name: "payer", DisplayName: "Payer", Type: model.FieldTypeText, Active: true},
	})
}

func newTestExtractor(c llm.Client) *Extractor {
	registry := llm.NewRegistry()
	registry.Register("anthropic", c, []string{"test-model"})
	return NewExtractor(registry, "anthropic", "test-model", DefaultGateConfig())
}

func TestModelVersion(t *testing.T) {
	assert.Equal(t, "anthropic/claude-x/v2", ModelVersion("anthropic", "claude-x"))
}

func TestExtractor_Extract(t *testing.T) {
	fake := &fakeLLM{response: `{"Member ID": "AB12345678", "Payer": "Blue Cross"}`}
	ex := newTestExtractor(fake)

	result, err := ex.Extract(context.Background(), "ocr text here", extractorCatalog())
	require.NoError(t, err)

	assert.Equal(t, "AB12345678", result.Fields["member_id"])
	assert.Equal(t, "Blue Cross", result.Fields["payer"])
	assert.InDelta(t, 0.9, result.Confidence["member_id"], 1e-9)
	assert.False(t, result.RequiresReview)
	assert.Equal(t, "anthropic", result.Provider)
	assert.Equal(t, "test-model", result.Model)
	assert.Equal(t, "anthropic/test-model/v2", result.ModelVersion)
	assert.Equal(t, fake.response, result.RawResponse)

	// The prompt carried the OCR text and the display names.
	assert.Contains(t, fake.prompt, "ocr text here")
	assert.Contains(t, fake.prompt, "Member ID")
	assert.Equal(t, "test-model", fake.model)
}

func TestExtractor_Extract_MalformedResponseGoesToReview(t *testing.T) {
	fake := &fakeLLM{response: "I could not find any fields, sorry."}
	ex := newTestExtractor(fake)

	result, err := ex.Extract(context.Background(), "ocr", extractorCatalog())
	require.NoError(t, err)

	assert.Empty(t, result.Fields)
	assert.True(t, result.RequiresReview)
	assert.Zero(t, result.Overall())
}

func TestExtractor_Extract_MissingRequiredForcesReview(t *testing.T) {
	fake := &fakeLLM{response: `{"Payer": "Blue Cross"}`}
	ex := newTestExtractor(fake)

	result, err := ex.Extract(context.Background(), "ocr", extractorCatalog())
	require.NoError(t, err)
	assert.True(t, result.RequiresReview)
}

func TestExtractor_Extract_UpstreamError(t *testing.T) {
	fake := &fakeLLM{err: &llm.UpstreamError{Provider: "anthropic", StatusCode: 500}}
	ex := newTestExtractor(fake)

	_, err := ex.Extract(context.Background(), "ocr", extractorCatalog())
	require.Error(t, err)

	var ue *llm.UpstreamError
	assert.ErrorAs(t, err, &ue)
}

func TestExtractor_Extract_UnconfiguredProvider(t *testing.T) {
	registry := llm.NewRegistry()
	ex := NewExtractor(registry, "anthropic", "test-model", DefaultGateConfig())

	_, err := ex.Extract(context.Background(), "ocr", extractorCatalog())
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrProviderUnavailable)
}
