package feedback

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/model"
	"github.com/jstiltner/document-understanding/internal/store"
)

// Recorder converts review events into immutable feedback records and keeps
// the per-(model version, field) performance aggregates current.
type Recorder struct {
	store store.Store
}

// NewRecorder creates a Recorder over the given store.
func NewRecorder(st store.Store) *Recorder {
	return &Recorder{store: st}
}

// RecordRequest describes one review event against one field.
type RecordRequest struct {
	DocumentID         string             `json:"document_id"`
	FieldName          string             `json:"field_name"`
	OriginalValue      string             `json:"original_value"`
	CorrectedValue     string             `json:"corrected_value"`
	OriginalConfidence float64            `json:"original_confidence"`
	FeedbackType       model.FeedbackType `json:"feedback_type"`
	ReviewerID         string             `json:"reviewer_id"`
	ModelVersion       string             `json:"model_version"`
	OCRContext         string             `json:"ocr_context"`
}

// Record computes the reward, appends the feedback record, and updates the
// performance aggregate. The append and the aggregate update are one atomic
// operation at the store layer; a failure leaves neither visible.
func (r *Recorder) Record(ctx context.Context, req RecordRequest) (*model.HumanFeedback, error) {
	if !req.FeedbackType.Valid() {
		return nil, eris.Errorf("feedback: unknown feedback type %q", req.FeedbackType)
	}
	if req.DocumentID == "" || req.FieldName == "" || req.ModelVersion == "" {
		return nil, eris.New("feedback: document_id, field_name, and model_version are required")
	}

	fb := model.HumanFeedback{
		ID:                 uuid.New().String(),
		DocumentID:         req.DocumentID,
		FieldName:          req.FieldName,
		OriginalValue:      req.OriginalValue,
		CorrectedValue:     req.CorrectedValue,
		OriginalConfidence: req.OriginalConfidence,
		FeedbackType:       req.FeedbackType,
		ReviewerID:         req.ReviewerID,
		ModelVersion:       req.ModelVersion,
		OCRContext:         req.OCRContext,
		RewardScore:        Reward(req.FeedbackType, req.OriginalValue, req.CorrectedValue, req.OriginalConfidence),
		ReviewTimestamp:    time.Now().UTC(),
	}

	if err := r.store.RecordFeedback(ctx, fb); err != nil {
		return nil, eris.Wrap(err, "feedback: record")
	}

	zap.L().Info("feedback recorded",
		zap.String("document_id", fb.DocumentID),
		zap.String("field", fb.FieldName),
		zap.String("type", string(fb.FeedbackType)),
		zap.Float64("reward", fb.RewardScore),
		zap.String("model_version", fb.ModelVersion),
	)

	return &fb, nil
}

// ForTraining returns feedback rows for offline training, newest first.
func (r *Recorder) ForTraining(ctx context.Context, modelVersion, fieldName string, limit int) ([]model.HumanFeedback, error) {
	return r.store.ListFeedback(ctx, store.FeedbackFilter{
		ModelVersion: modelVersion,
		FieldName:    fieldName,
		Limit:        limit,
	})
}

// Performance returns the incremental aggregates, optionally filtered by
// model version.
func (r *Recorder) Performance(ctx context.Context, modelVersion string) ([]model.ModelPerformance, error) {
	return r.store.GetPerformance(ctx, modelVersion)
}

// Summary computes the whole-log summary directly from the feedback table,
// serving as a cross-check of the incremental aggregates.
func (r *Recorder) Summary(ctx context.Context) (*model.FeedbackSummary, error) {
	return r.store.FeedbackSummary(ctx)
}
