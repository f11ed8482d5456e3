package extract

import (
	"strings"

	"github.com/jstiltner/document-understanding/internal/model"
)

// GateConfig carries the review thresholds. Both are deployment
// configuration, not constants.
type GateConfig struct {
	MinConfidence     float64 // overall-confidence floor, default 0.7
	RequiredThreshold float64 // per-required-field floor, default 0.8
}

// DefaultGateConfig returns the stock thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{MinConfidence: 0.7, RequiredThreshold: 0.8}
}

// RequiresReview decides whether a document goes to a human reviewer.
// Any of the following forces review:
//  1. a required field is absent or blank,
//  2. overall confidence is below MinConfidence,
//  3. a present required field scored below RequiredThreshold.
func RequiresReview(extracted map[string]string, scores map[string]float64, required []*model.FieldDefinition, cfg GateConfig) bool {
	for _, f := range required {
		if strings.TrimSpace(extracted[f.Name]) == "" {
			return true
		}
	}

	if scores[model.OverallKey] < cfg.MinConfidence {
		return true
	}

	for _, f := range required {
		if s, ok := scores[f.Name]; ok && s < cfg.RequiredThreshold {
			return true
		}
	}

	return false
}
