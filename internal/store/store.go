package store

import (
	"context"

	"github.com/jstiltner/document-understanding/internal/model"
)

// FieldUpdate holds the mutable subset of a field definition. Name is
// immutable post-creation; nil pointers leave the column untouched.
type FieldUpdate struct {
	DisplayName       *string
	Description       *string
	Type              *model.FieldType
	Required          *bool
	ValidationPattern *string
	Hints             *model.ExtractionHints
}

// FeedbackFilter selects rows from the feedback log. Zero values match
// everything; Limit <= 0 defaults to 1000. Results are newest-first.
type FeedbackFilter struct {
	ModelVersion string
	FieldName    string
	Limit        int
}

// Store is the persistence boundary for the extraction pipeline.
type Store interface {
	// Field definitions. Canonical names are globally unique and
	// case-sensitive; deletion is always a soft deactivate.
	CreateFieldDefinition(ctx context.Context, def model.FieldDefinition) error
	UpdateFieldDefinition(ctx context.Context, name string, upd FieldUpdate) error
	DeactivateFieldDefinition(ctx context.Context, name string) error
	GetFieldDefinition(ctx context.Context, name string) (*model.FieldDefinition, error)
	ListFieldDefinitions(ctx context.Context, activeOnly bool) ([]model.FieldDefinition, error)
	CountFieldDefinitions(ctx context.Context) (int, error)

	// Documents and their audit trail.
	CreateDocument(ctx context.Context, doc model.Document) (*model.Document, error)
	UpdateDocumentStatus(ctx context.Context, documentID string, status model.DocumentStatus, errMsg string) error
	SaveDocumentOCR(ctx context.Context, documentID, text string, confidence float64, engine string) error
	SaveDocumentExtraction(ctx context.Context, documentID string, result *model.ExtractionResult) error
	GetDocument(ctx context.Context, documentID string) (*model.Document, error)
	AppendAudit(ctx context.Context, entry model.AuditEntry) error
	ListAudit(ctx context.Context, documentID string) ([]model.AuditEntry, error)

	// Feedback log and performance aggregates. RecordFeedback appends the
	// immutable record AND folds it into the (model_version, field_name)
	// aggregate atomically: either both are visible or neither is. The
	// aggregate update runs under per-key mutual exclusion; this
	// read-modify-write is the one real race in the system.
	RecordFeedback(ctx context.Context, fb model.HumanFeedback) error
	ListFeedback(ctx context.Context, filter FeedbackFilter) ([]model.HumanFeedback, error)
	FeedbackSummary(ctx context.Context) (*model.FeedbackSummary, error)
	GetPerformance(ctx context.Context, modelVersion string) ([]model.ModelPerformance, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
