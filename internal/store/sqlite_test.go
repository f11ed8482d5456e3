package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jstiltner/document-understanding/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteStore_FieldDefinitionRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	def := model.FieldDefinition{
		Name:              "member_id",
		DisplayName:       "Member ID",
		Description:       "Insurance member identification number",
		Type:              model.FieldTypeText,
		Required:          true,
		ValidationPattern: `^[A-Z0-9]{6,20}$`,
		Hints:             model.ExtractionHints{Keywords: []string{"member id", "id"}, Context: "insurance"},
		Active:            true,
	}
	require.NoError(t, s.CreateFieldDefinition(ctx, def))

	got, err := s.GetFieldDefinition(ctx, "member_id")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, def.DisplayName, got.DisplayName)
	assert.Equal(t, def.Type, got.Type)
	assert.True(t, got.Required)
	assert.Equal(t, def.ValidationPattern, got.ValidationPattern)
	assert.Equal(t, def.Hints.Keywords, got.Hints.Keywords)
	assert.Equal(t, "insurance", got.Hints.Context)

	// Unknown names come back nil, not an error.
	missing, err := s.GetFieldDefinition(ctx, "no_such_field")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStore_UpdateAndDeactivateField(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateFieldDefinition(ctx, model.FieldDefinition{
		Name: "payer", DisplayName: "Payer", Type: model.FieldTypeText, Active: true,
	}))

	display := "Insurance Payer"
	required := true
	require.NoError(t, s.UpdateFieldDefinition(ctx, "payer", FieldUpdate{
		DisplayName: &display,
		Required:    &required,
	}))

	got, err := s.GetFieldDefinition(ctx, "payer")
	require.NoError(t, err)
	assert.Equal(t, "Insurance Payer", got.DisplayName)
	assert.True(t, got.Required)

	require.NoError(t, s.DeactivateFieldDefinition(ctx, "payer"))

	active, err := s.ListFieldDefinitions(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	// The row survives for historical feedback joins.
	all, err := s.ListFieldDefinitions(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	count, err := s.CountFieldDefinitions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Updates against missing fields surface as errors.
	assert.Error(t, s.UpdateFieldDefinition(ctx, "ghost", FieldUpdate{DisplayName: &display}))
	assert.Error(t, s.DeactivateFieldDefinition(ctx, "ghost"))
}

func TestSQLiteStore_DocumentLifecycle(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, model.Document{
		ID:       uuid.New().String(),
		Filename: "denial_letter.pdf",
		FilePath: "/tmp/denial_letter.pdf",
		MimeType: "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, model.DocStatusPending, doc.Status)

	require.NoError(t, s.UpdateDocumentStatus(ctx, doc.ID, model.DocStatusProcessing, ""))
	require.NoError(t, s.SaveDocumentOCR(ctx, doc.ID, "Member ID: AB12345678", 1.0, "pdftotext"))

	result := &model.ExtractionResult{
		Fields:         map[string]string{"member_id": "AB12345678"},
		Confidence:     map[string]float64{"member_id": 0.9, model.OverallKey: 0.9},
		RequiresReview: false,
		Provider:       "anthropic",
		Model:          "test-model",
		ModelVersion:   "anthropic/test-model/v2",
	}
	require.NoError(t, s.SaveDocumentExtraction(ctx, doc.ID, result))
	require.NoError(t, s.UpdateDocumentStatus(ctx, doc.ID, model.DocStatusCompleted, ""))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.DocStatusCompleted, got.Status)
	assert.Equal(t, "Member ID: AB12345678", got.OCRText)
	assert.InDelta(t, 1.0, got.OCRConfidence, 1e-9)
	assert.Equal(t, "pdftotext", got.OCREngine)
	require.NotNil(t, got.OCRAt)
	assert.Equal(t, "AB12345678", got.ExtractedFields["member_id"])
	assert.InDelta(t, 0.9, got.ConfidenceScores[model.OverallKey], 1e-9)
	assert.Equal(t, "anthropic/test-model/v2", got.ModelVersion)
	assert.False(t, got.RequiresReview)

	missing, err := s.GetDocument(ctx, "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStore_AuditTrail(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	doc, err := s.CreateDocument(ctx, model.Document{ID: uuid.New().String(), Filename: "a.pdf"})
	require.NoError(t, err)

	base := time.Now().UTC().Truncate(time.Second)
	for i, action := range []string{"uploaded", "processing_started", "ocr_completed"} {
		require.NoError(t, s.AppendAudit(ctx, model.AuditEntry{
			ID:         uuid.New().String(),
			DocumentID: doc.ID,
			Action:     action,
			Details:    map[string]any{"step": action},
			Timestamp:  base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := s.ListAudit(ctx, doc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "uploaded", entries[0].Action)
	assert.Equal(t, "ocr_completed", entries[2].Action)
	assert.Equal(t, "uploaded", entries[0].Details["step"])
}

func feedbackRecord(fbType model.FeedbackType, reward float64) model.HumanFeedback {
	return model.HumanFeedback{
		ID:                 uuid.New().String(),
		DocumentID:         "doc-1",
		FieldName:          "member_id",
		OriginalValue:      "AB12345678",
		OriginalConfidence: 0.85,
		FeedbackType:       fbType,
		ReviewerID:         "reviewer-1",
		ModelVersion:       "anthropic/test-model/v2",
		RewardScore:        reward,
		ReviewTimestamp:    time.Now().UTC(),
	}
}

func TestSQLiteStore_RecordFeedback_FoldsAggregate(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordFeedback(ctx, feedbackRecord(model.FeedbackConfirmation, 0.85)))
	require.NoError(t, s.RecordFeedback(ctx, feedbackRecord(model.FeedbackConfirmation, 0.9)))
	require.NoError(t, s.RecordFeedback(ctx, feedbackRecord(model.FeedbackRemoval, -1.2)))
	require.NoError(t, s.RecordFeedback(ctx, feedbackRecord(model.FeedbackAddition, -2.0)))

	perfs, err := s.GetPerformance(ctx, "anthropic/test-model/v2")
	require.NoError(t, err)
	require.Len(t, perfs, 1)

	p := perfs[0]
	assert.Equal(t, int64(4), p.TotalPredictions)
	assert.Equal(t, int64(2), p.CorrectPredictions)
	assert.Equal(t, int64(1), p.FalsePositives)
	assert.Equal(t, int64(1), p.FalseNegatives)
	assert.InDelta(t, (0.85+0.9-1.2-2.0)/4, p.AvgReward, 1e-9)
	assert.InDelta(t, 2.0/3.0, p.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, p.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, p.F1Score, 1e-9)

	summary, err := s.FeedbackSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.TotalFeedbackRecords)
	assert.InDelta(t, (0.85+0.9-1.2-2.0)/4, summary.AverageReward, 1e-9)
	assert.Equal(t, int64(2), summary.FeedbackDistribution["confirmation"])
	assert.Equal(t, int64(1), summary.FeedbackDistribution["removal"])
	assert.Equal(t, int64(1), summary.FeedbackDistribution["addition"])
}

func TestSQLiteStore_RecordFeedback_DuplicateID(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	fb := feedbackRecord(model.FeedbackConfirmation, 0.85)
	require.NoError(t, s.RecordFeedback(ctx, fb))

	// A replayed ID fails the primary key and leaves the aggregate alone.
	require.Error(t, s.RecordFeedback(ctx, fb))

	perfs, err := s.GetPerformance(ctx, "anthropic/test-model/v2")
	require.NoError(t, err)
	require.Len(t, perfs, 1)
	assert.Equal(t, int64(1), perfs[0].TotalPredictions)
}

func TestSQLiteStore_ListFeedback(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first := feedbackRecord(model.FeedbackConfirmation, 0.85)
	first.ReviewTimestamp = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, s.RecordFeedback(ctx, first))

	second := feedbackRecord(model.FeedbackCorrection, -0.3)
	second.FieldName = "payer"
	require.NoError(t, s.RecordFeedback(ctx, second))

	// Newest first.
	records, err := s.ListFeedback(ctx, FeedbackFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID)

	// Field filter.
	records, err = s.ListFeedback(ctx, FeedbackFilter{FieldName: "payer"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.FeedbackCorrection, records[0].FeedbackType)

	// Limit.
	records, err = s.ListFeedback(ctx, FeedbackFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
