package feedback

import (
	"strings"

	"github.com/jstiltner/document-understanding/internal/model"
)

// Reward computes the signed reward for one review event. Pure and
// deterministic: the stored reward is derived once at record time and
// never recomputed.
//
//	confirmation: +1.0 * original confidence
//	correction:   -0.5 * (1 - similarity), or -1.0 when either side is missing
//	addition:     -2.0 (the model missed a field outright)
//	removal:      -1.5 * original confidence (confident phantoms cost more)
func Reward(fbType model.FeedbackType, originalValue, correctedValue string, originalConfidence float64) float64 {
	switch fbType {
	case model.FeedbackConfirmation:
		return 1.0 * originalConfidence
	case model.FeedbackCorrection:
		if originalValue != "" && correctedValue != "" {
			return -0.5 * (1 - Similarity(originalValue, correctedValue))
		}
		return -1.0
	case model.FeedbackAddition:
		return -2.0
	case model.FeedbackRemoval:
		return -1.5 * originalConfidence
	}
	return 0.0
}

// Similarity is a coarse string similarity in [0,1]: 1.0 for strings equal
// after lowercasing and trimming, otherwise Jaccard similarity over the
// character sets, 0.0 when either side is empty. Character-set Jaccard
// ignores ordering and repetition; the reward only needs a rough
// partial-credit signal.
func Similarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	setA := make(map[rune]struct{}, len(a))
	for _, r := range a {
		setA[r] = struct{}{}
	}
	setB := make(map[rune]struct{}, len(b))
	for _, r := range b {
		setB[r] = struct{}{}
	}

	var intersection int
	for r := range setA {
		if _, ok := setB[r]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
