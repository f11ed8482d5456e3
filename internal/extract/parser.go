package extract

import (
	"encoding/json"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jstiltner/document-understanding/internal/model"
)

// ParseResponse turns raw LLM output into a canonical-name to value mapping.
// Malformed output degrades gracefully to an empty map (the missing required
// fields then drive the document to review downstream), so this function
// never returns an error. Keys that match no active field's display name
// (exactly or after normalization) are dropped.
func ParseResponse(raw string, catalog *model.FieldCatalog) map[string]string {
	cleaned := cleanJSON(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		zap.L().Warn("extract: unparseable LLM response",
			zap.Error(err),
			zap.Int("raw_len", len(raw)),
		)
		return map[string]string{}
	}

	out := make(map[string]string, len(parsed))
	for key, v := range parsed {
		def := catalog.ByDisplayName(key)
		if def == nil {
			zap.L().Debug("extract: dropping unrecognized field", zap.String("key", key))
			continue
		}
		val, ok := stringifyValue(v)
		if !ok {
			continue
		}
		out[def.Name] = val
	}
	return out
}

// cleanJSON strips markdown code fences and any wrapping prose, leaving the
// outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

// stringifyValue renders a scalar JSON value as the raw string the rest of
// the pipeline works with. Nulls and composite values are dropped.
func stringifyValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}
