// Package pipeline orchestrates one document's path from upload through
// OCR, extraction, and the review gate.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/extract"
	"github.com/jstiltner/document-understanding/internal/model"
	"github.com/jstiltner/document-understanding/internal/ocr"
	"github.com/jstiltner/document-understanding/internal/resilience"
	"github.com/jstiltner/document-understanding/internal/store"
)

// Options configure pipeline timing.
type Options struct {
	// SoftTimeout logs a warning when processing exceeds it. Default 25m.
	SoftTimeout time.Duration
	// HardTimeout cancels processing outright. Default 30m.
	HardTimeout time.Duration
	// Retry governs OCR and LLM attempts. Zero value gets defaults.
	Retry resilience.RetryConfig
}

// Pipeline processes documents end to end.
type Pipeline struct {
	store     store.Store
	engine    ocr.Engine
	extractor *extract.Extractor
	opts      Options
}

// New creates a Pipeline.
func New(st store.Store, engine ocr.Engine, extractor *extract.Extractor, opts Options) *Pipeline {
	if opts.SoftTimeout <= 0 {
		opts.SoftTimeout = 25 * time.Minute
	}
	if opts.HardTimeout <= 0 {
		opts.HardTimeout = 30 * time.Minute
	}
	return &Pipeline{store: st, engine: engine, extractor: extractor, opts: opts}
}

// Process ingests the PDF at path: creates the document record, runs OCR
// and extraction, applies the review gate, and persists every transition
// with an audit entry. The returned document reflects the terminal status
// (completed, review_required, or failed). A processing failure is recorded
// on the document and returned as an error.
func (p *Pipeline) Process(ctx context.Context, path string, catalog *model.FieldCatalog) (*model.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, p.opts.HardTimeout)
	defer cancel()

	start := time.Now()
	softTimer := time.AfterFunc(p.opts.SoftTimeout, func() {
		zap.L().Warn("document processing exceeded soft timeout",
			zap.String("path", path),
			zap.Duration("soft_timeout", p.opts.SoftTimeout),
		)
	})
	defer softTimer.Stop()

	doc, err := p.store.CreateDocument(ctx, model.Document{
		ID:               uuid.New().String(),
		Filename:         filepath.Base(path),
		OriginalFilename: filepath.Base(path),
		FilePath:         path,
		MimeType:         "application/pdf",
		Status:           model.DocStatusPending,
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create document")
	}

	p.audit(ctx, doc.ID, "uploaded", map[string]any{"filename": doc.Filename})

	if err := p.store.UpdateDocumentStatus(ctx, doc.ID, model.DocStatusProcessing, ""); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark processing")
	}
	doc.Status = model.DocStatusProcessing
	p.audit(ctx, doc.ID, "processing_started", nil)

	result, err := p.run(ctx, doc, catalog)
	if err != nil {
		// The raw error goes to the audit trail; the document keeps a
		// terse status message.
		p.audit(ctx, doc.ID, "processing_failed", map[string]any{"error": err.Error()})
		if stErr := p.store.UpdateDocumentStatus(ctx, doc.ID, model.DocStatusFailed, err.Error()); stErr != nil {
			zap.L().Error("failed to mark document failed", zap.String("document_id", doc.ID), zap.Error(stErr))
		}
		doc.Status = model.DocStatusFailed
		doc.Error = err.Error()
		return doc, err
	}

	status := model.DocStatusCompleted
	if result.RequiresReview {
		status = model.DocStatusReviewRequired
	}
	if err := p.store.UpdateDocumentStatus(ctx, doc.ID, status, ""); err != nil {
		return nil, eris.Wrap(err, "pipeline: mark terminal status")
	}
	doc.Status = status
	p.audit(ctx, doc.ID, "processing_completed", map[string]any{
		"status":             string(status),
		"overall_confidence": result.Overall(),
		"duration_ms":        time.Since(start).Milliseconds(),
	})

	zap.L().Info("document processed",
		zap.String("document_id", doc.ID),
		zap.String("status", string(status)),
		zap.Float64("overall_confidence", result.Overall()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return doc, nil
}

// run executes OCR and extraction, mutating doc with stage outputs.
func (p *Pipeline) run(ctx context.Context, doc *model.Document, catalog *model.FieldCatalog) (*model.ExtractionResult, error) {
	ocrRes, err := resilience.DoVal(ctx, p.retryConfig("ocr"), func(ctx context.Context) (ocr.Result, error) {
		return p.engine.Extract(ctx, doc.FilePath)
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: ocr")
	}

	if err := p.store.SaveDocumentOCR(ctx, doc.ID, ocrRes.Text, ocrRes.Confidence, ocrRes.Engine); err != nil {
		return nil, eris.Wrap(err, "pipeline: save ocr")
	}
	now := time.Now().UTC()
	doc.OCRText = ocrRes.Text
	doc.OCRConfidence = ocrRes.Confidence
	doc.OCREngine = ocrRes.Engine
	doc.OCRAt = &now
	p.audit(ctx, doc.ID, "ocr_completed", map[string]any{
		"engine":     ocrRes.Engine,
		"confidence": ocrRes.Confidence,
		"chars":      len(ocrRes.Text),
	})

	result, err := resilience.DoVal(ctx, p.retryConfig("llm"), func(ctx context.Context) (*model.ExtractionResult, error) {
		return p.extractor.Extract(ctx, ocrRes.Text, catalog)
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: extract")
	}

	if err := p.store.SaveDocumentExtraction(ctx, doc.ID, result); err != nil {
		return nil, eris.Wrap(err, "pipeline: save extraction")
	}
	extractedAt := time.Now().UTC()
	doc.ExtractedFields = result.Fields
	doc.ConfidenceScores = result.Confidence
	doc.Provider = result.Provider
	doc.Model = result.Model
	doc.ModelVersion = result.ModelVersion
	doc.RequiresReview = result.RequiresReview
	doc.ExtractedAt = &extractedAt
	p.audit(ctx, doc.ID, "extraction_completed", map[string]any{
		"model_version":      result.ModelVersion,
		"fields_extracted":   len(result.Fields),
		"overall_confidence": result.Overall(),
		"requires_review":    result.RequiresReview,
	})

	return result, nil
}

func (p *Pipeline) retryConfig(operation string) resilience.RetryConfig {
	cfg := p.opts.Retry
	if cfg.MaxAttempts <= 0 {
		cfg = resilience.DefaultRetryConfig()
	}
	cfg.OnRetry = resilience.RetryLogger("pipeline", operation)
	return cfg
}

// audit appends a trail entry; failures are logged, never fatal.
func (p *Pipeline) audit(ctx context.Context, documentID, action string, details map[string]any) {
	entry := model.AuditEntry{
		ID:         uuid.New().String(),
		DocumentID: documentID,
		Action:     action,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}
	if err := p.store.AppendAudit(ctx, entry); err != nil {
		zap.L().Warn("audit append failed",
			zap.String("document_id", documentID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}
