package extract

import (
	"fmt"
	"strings"

	"github.com/jstiltner/document-understanding/internal/model"
)

// PromptSchemeVersion identifies the prompt layout baked into BuildPrompt.
// It is folded into the model version string so performance aggregates
// partition by prompt scheme as well as provider and model.
const PromptSchemeVersion = "v2"

const promptHeader = `You are an expert at reading insurance authorization and denial documents in a medical workflow. Given OCR text from a multi-page faxed PDF, extract the following fields if present, and output a JSON object with only the found fields:`

const promptInstructions = `Instructions:
1. If a field is missing or cannot be found, omit it from the JSON
2. Use only valid JSON output, no extra explanation
3. Be precise with field names - use exactly the names listed above
4. For dates, use MM/DD/YYYY format
5. For phone numbers, use (XXX) XXX-XXXX format
6. Look for variations in field labels (e.g. "Patient Name" may contain both first and last name)`

// BuildPrompt renders the extraction instruction for one document. It is a
// pure function of its inputs: same OCR text and field definitions, same
// prompt. The OCR text is included verbatim.
func BuildPrompt(ocrText string, required, optional []*model.FieldDefinition) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n\nRequired Fields (must be found for successful processing):\n")
	writeFieldList(&b, required)

	b.WriteString("\nOptional Fields (missing optional fields do not block processing):\n")
	writeFieldList(&b, optional)

	if hints := buildHintsBlock(required, optional); hints != "" {
		b.WriteString("\nExtraction hints:\n")
		b.WriteString(hints)
	}

	b.WriteString("\n")
	b.WriteString(promptInstructions)
	b.WriteString("\n\nOCR Text to analyze:\n")
	b.WriteString(ocrText)
	b.WriteString("\n\nOutput only valid JSON:")
	return b.String()
}

func writeFieldList(b *strings.Builder, fields []*model.FieldDefinition) {
	for _, f := range fields {
		b.WriteString("- ")
		b.WriteString(f.DisplayName)
		if f.Description != "" {
			b.WriteString(" (")
			b.WriteString(f.Description)
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
}

// buildHintsBlock renders one line per field that carries hint keywords.
// Fields without keywords are omitted; an all-empty catalog yields "".
func buildHintsBlock(required, optional []*model.FieldDefinition) string {
	var b strings.Builder
	for _, group := range [][]*model.FieldDefinition{required, optional} {
		for _, f := range group {
			if len(f.Hints.Keywords) == 0 {
				continue
			}
			fmt.Fprintf(&b, "- %s: look near %s", f.DisplayName, strings.Join(f.Hints.Keywords, ", "))
			if f.Hints.Context != "" {
				fmt.Fprintf(&b, " (%s section)", f.Hints.Context)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
