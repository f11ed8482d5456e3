package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFeedbackTypeValid(t *testing.T) {
	for _, ft := range []FeedbackType{FeedbackConfirmation, FeedbackCorrection, FeedbackAddition, FeedbackRemoval} {
		assert.True(t, ft.Valid())
	}
	assert.False(t, FeedbackType("praise").Valid())
}

func TestModelPerformanceApply_Confirmation(t *testing.T) {
	var p ModelPerformance
	now := time.Now().UTC()

	p.Apply(FeedbackConfirmation, 0.85, now)

	assert.Equal(t, int64(1), p.TotalPredictions)
	assert.Equal(t, int64(1), p.CorrectPredictions)
	assert.Equal(t, int64(0), p.FalsePositives)
	assert.Equal(t, int64(0), p.FalseNegatives)
	assert.InDelta(t, 0.85, p.AvgReward, 1e-9)
	assert.InDelta(t, 1.0, p.Precision, 1e-9)
	assert.InDelta(t, 1.0, p.Recall, 1e-9)
	assert.InDelta(t, 1.0, p.F1Score, 1e-9)
	assert.Equal(t, now, p.LastUpdated)
}

func TestModelPerformanceApply_Addition(t *testing.T) {
	var p ModelPerformance

	p.Apply(FeedbackAddition, -2.0, time.Now().UTC())

	assert.Equal(t, int64(1), p.TotalPredictions)
	assert.Equal(t, int64(1), p.FalseNegatives)
	assert.Equal(t, int64(0), p.CorrectPredictions)
	assert.Equal(t, int64(0), p.FalsePositives)
	assert.InDelta(t, -2.0, p.AvgReward, 1e-9)
}

func TestModelPerformanceApply_Removal(t *testing.T) {
	var p ModelPerformance

	p.Apply(FeedbackRemoval, -1.2, time.Now().UTC())

	assert.Equal(t, int64(1), p.FalsePositives)
	assert.Equal(t, int64(0), p.FalseNegatives)
	assert.Equal(t, int64(0), p.CorrectPredictions)
}

func TestModelPerformanceApply_CorrectionCountsNeither(t *testing.T) {
	var p ModelPerformance

	p.Apply(FeedbackCorrection, -0.3, time.Now().UTC())

	assert.Equal(t, int64(1), p.TotalPredictions)
	assert.Equal(t, int64(0), p.CorrectPredictions)
	assert.Equal(t, int64(0), p.FalsePositives)
	assert.Equal(t, int64(0), p.FalseNegatives)
}

func TestModelPerformanceApply_RunningAverage(t *testing.T) {
	var p ModelPerformance
	now := time.Now().UTC()

	p.Apply(FeedbackConfirmation, 1.0, now)
	p.Apply(FeedbackConfirmation, 0.5, now)
	p.Apply(FeedbackCorrection, -0.5, now)

	assert.Equal(t, int64(3), p.TotalPredictions)
	assert.InDelta(t, (1.0+0.5-0.5)/3.0, p.AvgReward, 1e-9)
}

func TestModelPerformanceApply_MetricsRetainedOnZeroDenominator(t *testing.T) {
	var p ModelPerformance
	now := time.Now().UTC()

	p.Apply(FeedbackConfirmation, 0.9, now)
	assert.InDelta(t, 1.0, p.Precision, 1e-9)

	// A correction changes no confusion counts, so precision and recall
	// keep their previous values.
	p.Apply(FeedbackCorrection, -0.2, now)
	assert.InDelta(t, 1.0, p.Precision, 1e-9)
	assert.InDelta(t, 1.0, p.Recall, 1e-9)
}

func TestModelPerformanceApply_PrecisionRecallF1(t *testing.T) {
	var p ModelPerformance
	now := time.Now().UTC()

	// 2 correct, 1 phantom, 1 miss.
	p.Apply(FeedbackConfirmation, 0.9, now)
	p.Apply(FeedbackConfirmation, 0.8, now)
	p.Apply(FeedbackRemoval, -1.0, now)
	p.Apply(FeedbackAddition, -2.0, now)

	assert.Equal(t, int64(4), p.TotalPredictions)
	assert.InDelta(t, 2.0/3.0, p.Precision, 1e-9)
	assert.InDelta(t, 2.0/3.0, p.Recall, 1e-9)
	assert.InDelta(t, 2.0/3.0, p.F1Score, 1e-9)
}

func TestModelPerformanceApply_OrderIndependentCounts(t *testing.T) {
	now := time.Now().UTC()
	events := []struct {
		ft     FeedbackType
		reward float64
	}{
		{FeedbackConfirmation, 0.9},
		{FeedbackRemoval, -1.5},
		{FeedbackAddition, -2.0},
		{FeedbackCorrection, -0.4},
	}

	var forward, backward ModelPerformance
	for _, e := range events {
		forward.Apply(e.ft, e.reward, now)
	}
	for i := len(events) - 1; i >= 0; i-- {
		backward.Apply(events[i].ft, events[i].reward, now)
	}

	assert.Equal(t, forward.TotalPredictions, backward.TotalPredictions)
	assert.Equal(t, forward.CorrectPredictions, backward.CorrectPredictions)
	assert.Equal(t, forward.FalsePositives, backward.FalsePositives)
	assert.Equal(t, forward.FalseNegatives, backward.FalseNegatives)
	assert.InDelta(t, forward.AvgReward, backward.AvgReward, 1e-9)
}
