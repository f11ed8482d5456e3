package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FieldType classifies a field for confidence scoring and validation.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeDate   FieldType = "date"
	FieldTypeNumber FieldType = "number"
	FieldTypeEmail  FieldType = "email"
	FieldTypePhone  FieldType = "phone"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldTypeText, FieldTypeDate, FieldTypeNumber, FieldTypeEmail, FieldTypePhone:
		return true
	}
	return false
}

// ExtractionHints carries optional guidance rendered into the extraction prompt.
type ExtractionHints struct {
	Keywords []string `json:"keywords,omitempty"`
	Context  string   `json:"context,omitempty"`
}

// FieldDefinition describes one extractable field. Name is the canonical,
// machine-facing identifier and is immutable once created; DisplayName is
// what the LLM sees and returns. Deactivated definitions are excluded from
// prompts and scoring but retained so historical feedback rows still join.
type FieldDefinition struct {
	Name              string          `json:"name"`
	DisplayName       string          `json:"display_name"`
	Description       string          `json:"description,omitempty"`
	Type              FieldType       `json:"field_type"`
	Required          bool            `json:"is_required"`
	ValidationPattern string          `json:"validation_pattern,omitempty"`
	ValidationRegex   *regexp.Regexp  `json:"-"` // pre-compiled from ValidationPattern at catalog load
	Hints             ExtractionHints `json:"extraction_hints,omitempty"`
	Active            bool            `json:"is_active"`
}

// FieldCatalog is an indexed view over the active field definitions.
type FieldCatalog struct {
	Fields    []FieldDefinition
	byName    map[string]*FieldDefinition
	byDisplay map[string]*FieldDefinition // keyed by normalized display name
	required  []*FieldDefinition
	optional  []*FieldDefinition
}

// NewFieldCatalog builds a FieldCatalog with indexed lookups.
// Pre-compiles validation regexes; a pattern that fails to compile is
// dropped, and the field then scores on type heuristics alone.
func NewFieldCatalog(fields []FieldDefinition) *FieldCatalog {
	c := &FieldCatalog{
		Fields:    fields,
		byName:    make(map[string]*FieldDefinition, len(fields)),
		byDisplay: make(map[string]*FieldDefinition, len(fields)),
	}
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.ValidationPattern != "" {
			if re, err := regexp.Compile(f.ValidationPattern); err == nil {
				f.ValidationRegex = re
			}
		}
		c.byName[f.Name] = f
		if f.DisplayName != "" {
			// Last writer wins on display-name collisions; canonical names
			// are unique, display names are not constrained.
			c.byDisplay[NormalizeDisplayName(f.DisplayName)] = f
		}
		if f.Required {
			c.required = append(c.required, f)
		} else {
			c.optional = append(c.optional, f)
		}
	}
	return c
}

// ByName returns the definition for the given canonical name, or nil.
func (c *FieldCatalog) ByName(name string) *FieldDefinition {
	return c.byName[name]
}

// ByDisplayName resolves a display name (exact or normalized) to its
// definition, or nil. Normalization makes the match robust against the
// case and whitespace drift typical of LLM output over OCR text.
func (c *FieldCatalog) ByDisplayName(display string) *FieldDefinition {
	return c.byDisplay[NormalizeDisplayName(display)]
}

// Required returns the active required field definitions.
func (c *FieldCatalog) Required() []*FieldDefinition {
	return c.required
}

// Optional returns the active optional field definitions.
func (c *FieldCatalog) Optional() []*FieldDefinition {
	return c.optional
}

// displayNormalizer strips diacritics so OCR-mangled labels like
// "Référence Number" still resolve.
var displayNormalizer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeDisplayName lowercases a display name and removes all whitespace
// and combining marks, yielding the key used for fuzzy display-name matching.
func NormalizeDisplayName(s string) string {
	if out, _, err := transform.String(displayNormalizer, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
