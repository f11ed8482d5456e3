package model

import "time"

// FeedbackType classifies a human review event against one extracted field.
type FeedbackType string

const (
	// FeedbackConfirmation: the model's value was accepted as-is.
	FeedbackConfirmation FeedbackType = "confirmation"
	// FeedbackCorrection: the model found the field but the value was wrong.
	FeedbackCorrection FeedbackType = "correction"
	// FeedbackAddition: the model missed a field the reviewer supplied.
	FeedbackAddition FeedbackType = "addition"
	// FeedbackRemoval: the model extracted a field that should not exist.
	FeedbackRemoval FeedbackType = "removal"
)

// Valid reports whether t is one of the four feedback types.
func (t FeedbackType) Valid() bool {
	switch t {
	case FeedbackConfirmation, FeedbackCorrection, FeedbackAddition, FeedbackRemoval:
		return true
	}
	return false
}

// HumanFeedback is one immutable record in the append-only review log.
// RewardScore is derived deterministically at creation time and never
// recomputed; the log is the substrate for offline RL and analysis.
type HumanFeedback struct {
	ID                 string       `json:"id"`
	DocumentID         string       `json:"document_id"`
	FieldName          string       `json:"field_name"`
	OriginalValue      string       `json:"original_value,omitempty"`
	CorrectedValue     string       `json:"corrected_value,omitempty"`
	OriginalConfidence float64      `json:"original_confidence"`
	FeedbackType       FeedbackType `json:"feedback_type"`
	ReviewerID         string       `json:"reviewer_id"`
	ModelVersion       string       `json:"model_version"`
	OCRContext         string       `json:"ocr_context,omitempty"`
	RewardScore        float64      `json:"reward_score"`
	ReviewTimestamp    time.Time    `json:"review_timestamp"`
}

// ModelPerformance is the running aggregate for one (model_version,
// field_name) pair, maintained incrementally: one Apply per feedback
// record, exactly once each.
type ModelPerformance struct {
	ModelVersion       string    `json:"model_version"`
	FieldName          string    `json:"field_name"`
	TotalPredictions   int64     `json:"total_predictions"`
	CorrectPredictions int64     `json:"correct_predictions"`
	FalsePositives     int64     `json:"false_positives"`
	FalseNegatives     int64     `json:"false_negatives"`
	AvgConfidence      float64   `json:"avg_confidence"`
	AvgReward          float64   `json:"avg_reward"`
	Precision          float64   `json:"precision"`
	Recall             float64   `json:"recall"`
	F1Score            float64   `json:"f1_score"`
	LastUpdated        time.Time `json:"last_updated"`
}

// Apply folds one feedback record into the aggregate. It is NOT safe to
// replay: each record must be applied exactly once. Callers are responsible
// for per-key mutual exclusion around the read-Apply-write sequence (row
// lock or equivalent); concurrent unprotected writers on the same key
// lose updates and corrupt the running means.
func (p *ModelPerformance) Apply(fbType FeedbackType, rewardScore float64, now time.Time) {
	p.TotalPredictions++

	switch fbType {
	case FeedbackConfirmation:
		p.CorrectPredictions++
	case FeedbackAddition:
		p.FalseNegatives++
	case FeedbackRemoval:
		p.FalsePositives++
	case FeedbackCorrection:
		// A wrong-value guess counts as neither a phantom nor a miss, so
		// corrections leave false positives and false negatives untouched.
	}

	p.AvgReward = (p.AvgReward*float64(p.TotalPredictions-1) + rewardScore) / float64(p.TotalPredictions)

	// Precision/recall/F1 retain their previous value when the denominator
	// is zero rather than collapsing to 0.
	if denom := p.CorrectPredictions + p.FalsePositives; denom > 0 {
		p.Precision = float64(p.CorrectPredictions) / float64(denom)
	}
	if denom := p.CorrectPredictions + p.FalseNegatives; denom > 0 {
		p.Recall = float64(p.CorrectPredictions) / float64(denom)
	}
	if p.Precision+p.Recall > 0 {
		p.F1Score = 2 * p.Precision * p.Recall / (p.Precision + p.Recall)
	}

	p.LastUpdated = now
}

// FeedbackSummary is the whole-log cross-check of the incremental
// aggregates, computed from the HumanFeedback table directly.
type FeedbackSummary struct {
	TotalFeedbackRecords int64            `json:"total_feedback_records"`
	AverageReward        float64          `json:"average_reward"`
	FeedbackDistribution map[string]int64 `json:"feedback_distribution"`
}
