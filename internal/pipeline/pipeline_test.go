package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstiltner/document-understanding/internal/extract"
	"github.com/jstiltner/document-understanding/internal/llm"
	"github.com/jstiltner/document-understanding/internal/model"
	"github.com/jstiltner/document-understanding/internal/ocr"
	"github.com/jstiltner/document-understanding/internal/resilience"
	"github.com/jstiltner/document-understanding/internal/store"
)

// pipelineStore is an in-memory Store recording the pipeline's writes.
type pipelineStore struct {
	store.Store

	doc      *model.Document
	statuses []model.DocumentStatus
	lastErr  string
	audits   []model.AuditEntry
	result   *model.ExtractionResult
}

func (s *pipelineStore) CreateDocument(ctx context.Context, doc model.Document) (*model.Document, error) {
	now := time.Now().UTC()
	doc.UploadedAt = now
	doc.UpdatedAt = now
	s.doc = &doc
	return &doc, nil
}

func (s *pipelineStore) UpdateDocumentStatus(ctx context.Context, documentID string, status model.DocumentStatus, errMsg string) error {
	s.statuses = append(s.statuses, status)
	s.lastErr = errMsg
	return nil
}

func (s *pipelineStore) SaveDocumentOCR(ctx context.Context, documentID, text string, confidence float64, engine string) error {
	return nil
}

func (s *pipelineStore) SaveDocumentExtraction(ctx context.Context, documentID string, result *model.ExtractionResult) error {
	s.result = result
	return nil
}

func (s *pipelineStore) AppendAudit(ctx context.Context, entry model.AuditEntry) error {
	s.audits = append(s.audits, entry)
	return nil
}

func (s *pipelineStore) actions() []string {
	out := make([]string, 0, len(s.audits))
	for _, e := range s.audits {
		out = append(out, e.Action)
	}
	return out
}

// fakeOCR fails transiently `failures` times before succeeding.
type fakeOCR struct {
	result   ocr.Result
	err      error
	failures int
	calls    int
}

func (f *fakeOCR) Extract(ctx context.Context, pdfPath string) (ocr.Result, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return ocr.Result{}, resilience.NewTransientError(eris.New("ocr hiccup"), 503)
	}
	if f.err != nil {
		return ocr.Result{}, f.err
	}
	return f.result, nil
}

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Generate(ctx context.Context, prompt, model string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func pipelineCatalog() *model.FieldCatalog {
	return model.NewFieldCatalog([]model.FieldDefinition{
		{Name: "member_id", DisplayName: "Member ID", Type: model.FieldTypeText, Required: true, Active: true},
	})
}

func newTestPipeline(st store.Store, engine ocr.Engine, client llm.Client) *Pipeline {
	registry := llm.NewRegistry()
	registry.Register("anthropic", client, []string{"test-model"})
	extractor := extract.NewExtractor(registry, "anthropic", "test-model", extract.DefaultGateConfig())
	return New(st, engine, extractor, Options{
		Retry: resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, JitterFraction: 0},
	})
}

func TestPipeline_Process(t *testing.T) {
	st := &pipelineStore{}
	engine := &fakeOCR{result: ocr.Result{Text: "Member ID: AB12345678", Confidence: 1.0, Engine: "pdftotext"}}
	p := newTestPipeline(st, engine, &fakeLLM{response: `{"Member ID": "AB12345678"}`})

	doc, err := p.Process(context.Background(), "/tmp/denial.pdf", pipelineCatalog())
	require.NoError(t, err)

	assert.Equal(t, model.DocStatusCompleted, doc.Status)
	assert.Equal(t, "denial.pdf", doc.Filename)
	assert.Equal(t, "AB12345678", doc.ExtractedFields["member_id"])
	assert.Equal(t, "anthropic/test-model/v2", doc.ModelVersion)
	assert.False(t, doc.RequiresReview)
	assert.NotNil(t, doc.OCRAt)
	assert.NotNil(t, doc.ExtractedAt)

	assert.Equal(t, []model.DocumentStatus{model.DocStatusProcessing, model.DocStatusCompleted}, st.statuses)
	assert.Equal(t, []string{"uploaded", "processing_started", "ocr_completed", "extraction_completed", "processing_completed"}, st.actions())
	require.NotNil(t, st.result)
	assert.Equal(t, "AB12345678", st.result.Fields["member_id"])
}

func TestPipeline_Process_ReviewRequired(t *testing.T) {
	st := &pipelineStore{}
	engine := &fakeOCR{result: ocr.Result{Text: "nothing useful", Confidence: 1.0, Engine: "pdftotext"}}
	p := newTestPipeline(st, engine, &fakeLLM{response: `{}`})

	doc, err := p.Process(context.Background(), "/tmp/blank.pdf", pipelineCatalog())
	require.NoError(t, err)

	assert.Equal(t, model.DocStatusReviewRequired, doc.Status)
	assert.True(t, doc.RequiresReview)
	assert.Contains(t, st.actions(), "processing_completed")
}

func TestPipeline_Process_OCRRetriesTransientFailures(t *testing.T) {
	st := &pipelineStore{}
	engine := &fakeOCR{
		result:   ocr.Result{Text: "Member ID: AB12345678", Confidence: 1.0, Engine: "pdftotext"},
		failures: 2,
	}
	p := newTestPipeline(st, engine, &fakeLLM{response: `{"Member ID": "AB12345678"}`})

	doc, err := p.Process(context.Background(), "/tmp/denial.pdf", pipelineCatalog())
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusCompleted, doc.Status)
	assert.Equal(t, 3, engine.calls)
}

func TestPipeline_Process_OCRFailureMarksFailed(t *testing.T) {
	st := &pipelineStore{}
	engine := &fakeOCR{err: eris.New("pdftotext: file is corrupt")}
	p := newTestPipeline(st, engine, &fakeLLM{response: `{}`})

	doc, err := p.Process(context.Background(), "/tmp/corrupt.pdf", pipelineCatalog())
	require.Error(t, err)
	require.NotNil(t, doc)

	// One attempt only; corruption is not transient.
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, model.DocStatusFailed, doc.Status)
	assert.Contains(t, doc.Error, "file is corrupt")
	assert.Equal(t, model.DocStatusFailed, st.statuses[len(st.statuses)-1])
	assert.Contains(t, st.lastErr, "file is corrupt")
	assert.Contains(t, st.actions(), "processing_failed")
}

func TestPipeline_Process_LLMFailureMarksFailed(t *testing.T) {
	st := &pipelineStore{}
	engine := &fakeOCR{result: ocr.Result{Text: "text", Confidence: 1.0, Engine: "pdftotext"}}
	p := newTestPipeline(st, engine, &fakeLLM{err: &llm.UpstreamError{Provider: "anthropic", StatusCode: 400, Err: eris.New("bad request")}})

	doc, err := p.Process(context.Background(), "/tmp/denial.pdf", pipelineCatalog())
	require.Error(t, err)
	assert.Equal(t, model.DocStatusFailed, doc.Status)

	// OCR succeeded and was audited before the extraction failure.
	actions := st.actions()
	assert.Contains(t, actions, "ocr_completed")
	assert.Contains(t, actions, "processing_failed")
	assert.NotContains(t, actions, "extraction_completed")
}
