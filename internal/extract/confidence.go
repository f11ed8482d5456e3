package extract

import (
	"regexp"
	"strings"

	"github.com/jstiltner/document-understanding/internal/model"
)

// Heuristic confidence levels. The scorer only has to separate "looks
// right" from "needs human eyes".
const (
	confBase      = 0.8
	confValidated = 0.9
	confShort     = 0.5
)

var (
	dateRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
		regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),
	}
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegexes = []*regexp.Regexp{
		regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`),
		regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`),
		regexp.MustCompile(`^\d{10}$`),
	}
)

// ScoreFields assigns each extracted field a confidence in [0,1] plus the
// reserved "overall" aggregate. Required-field confidence dominates the
// aggregate because it dominates the review decision.
func ScoreFields(extracted map[string]string, catalog *model.FieldCatalog) map[string]float64 {
	scores := make(map[string]float64, len(extracted)+1)

	for name, value := range extracted {
		scores[name] = scoreField(value, catalog.ByName(name))
	}

	scores[model.OverallKey] = overallScore(scores, catalog)
	return scores
}

// scoreField applies the per-field heuristic: base 0.8, boosted to 0.9 when
// the value matches its type's expected shape or the field's validation
// pattern. The short-value clamp runs last, after any boost.
func scoreField(value string, def *model.FieldDefinition) float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0.0
	}

	conf := confBase

	var typeMatch bool
	switch fieldType(def) {
	case model.FieldTypeDate:
		typeMatch = matchesAny(dateRegexes, value)
	case model.FieldTypeEmail:
		typeMatch = emailRegex.MatchString(value)
	case model.FieldTypePhone:
		typeMatch = matchesAny(phoneRegexes, value)
	}

	switch {
	case typeMatch:
		conf = confValidated
	case def != nil && def.ValidationRegex != nil && def.ValidationRegex.MatchString(value):
		// The validation pattern backstops any field type, not just text.
		conf = confValidated
	}

	if len(value) < 2 {
		conf = confShort
	}
	return conf
}

// overallScore blends the required-field average (weight 0.8) with the
// average over everything extracted (weight 0.2). With no scored required
// fields the all-field average stands alone; nothing extracted scores 0.
func overallScore(scores map[string]float64, catalog *model.FieldCatalog) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	var reqSum float64
	var reqN int
	for _, f := range catalog.Required() {
		if s, ok := scores[f.Name]; ok {
			reqSum += s
			reqN++
		}
	}

	var allSum float64
	var allN int
	for name, s := range scores {
		if name == model.OverallKey {
			continue
		}
		allSum += s
		allN++
	}
	if allN == 0 {
		return 0.0
	}
	allAvg := allSum / float64(allN)

	if reqN == 0 {
		return allAvg
	}
	return 0.8*(reqSum/float64(reqN)) + 0.2*allAvg
}

func fieldType(def *model.FieldDefinition) model.FieldType {
	if def == nil {
		return model.FieldTypeText
	}
	return def.Type
}

func matchesAny(regexes []*regexp.Regexp, value string) bool {
	for _, re := range regexes {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
