package model

import "time"

// DocumentStatus tracks a document through the processing pipeline.
type DocumentStatus string

const (
	DocStatusPending        DocumentStatus = "pending"
	DocStatusProcessing     DocumentStatus = "processing"
	DocStatusCompleted      DocumentStatus = "completed"
	DocStatusFailed         DocumentStatus = "failed"
	DocStatusReviewRequired DocumentStatus = "review_required"
)

// Document is one ingested scan moving through OCR, extraction, and review.
type Document struct {
	ID               string         `json:"id"`
	Filename         string         `json:"filename"`
	OriginalFilename string         `json:"original_filename,omitempty"`
	FilePath         string         `json:"file_path,omitempty"`
	MimeType         string         `json:"mime_type,omitempty"`
	Status           DocumentStatus `json:"status"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	UpdatedAt        time.Time      `json:"updated_at"`

	// OCR stage
	OCRText       string     `json:"ocr_text,omitempty"`
	OCRConfidence float64    `json:"ocr_confidence,omitempty"`
	OCREngine     string     `json:"ocr_engine,omitempty"`
	OCRAt         *time.Time `json:"ocr_at,omitempty"`

	// Extraction stage, copied from the ExtractionResult for the attempt.
	ExtractedFields  map[string]string  `json:"extracted_fields,omitempty"`
	ConfidenceScores map[string]float64 `json:"confidence_scores,omitempty"`
	Provider         string             `json:"provider,omitempty"`
	Model            string             `json:"model,omitempty"`
	ModelVersion     string             `json:"model_version,omitempty"`
	RequiresReview   bool               `json:"requires_review"`
	ExtractedAt      *time.Time         `json:"extracted_at,omitempty"`

	Error string `json:"error,omitempty"`
}

// OverallKey is the reserved key in ConfidenceScores holding the aggregate
// document-level confidence.
const OverallKey = "overall"

// ExtractionResult is the transient outcome of one extraction attempt.
// It is never persisted as its own entity; its fields are copied onto the
// Document record. Immutable after creation.
type ExtractionResult struct {
	Fields         map[string]string  `json:"extracted_fields"`
	Confidence     map[string]float64 `json:"confidence_scores"` // includes the reserved "overall" key
	RequiresReview bool               `json:"requires_review"`
	Provider       string             `json:"provider"`
	Model          string             `json:"model"`
	ModelVersion   string             `json:"model_version"`
	RawResponse    string             `json:"-"`
	Error          string             `json:"error,omitempty"`
}

// Overall returns the aggregate confidence, 0 if absent.
func (r *ExtractionResult) Overall() float64 {
	return r.Confidence[OverallKey]
}

// AuditEntry is one row of a document's processing audit trail.
type AuditEntry struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}
