package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

const (
	mistralOCREndpoint     = "https://api.mistral.ai/v1/ocr"
	defaultMistralModel    = "pixtral-large-latest"
	defaultMistralOCRScore = 0.85
)

// MistralOCR extracts text from PDFs using the Mistral OCR API.
type MistralOCR struct {
	apiKey     string
	model      string
	endpoint   string
	confidence float64
	client     *http.Client
}

// NewMistralOCR creates a MistralOCR engine. Empty model and zero
// confidence fall back to defaults. The API does not report a per-document
// confidence, so the configured value is attached to every result.
func NewMistralOCR(apiKey, model string, confidence float64) *MistralOCR {
	if model == "" {
		model = defaultMistralModel
	}
	if confidence <= 0 {
		confidence = defaultMistralOCRScore
	}
	return &MistralOCR{
		apiKey:     apiKey,
		model:      model,
		endpoint:   mistralOCREndpoint,
		confidence: confidence,
		client:     &http.Client{},
	}
}

type mistralOCRRequest struct {
	Model    string             `json:"model"`
	Document mistralOCRDocument `json:"document"`
}

type mistralOCRDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

type mistralOCRResponse struct {
	Pages []mistralOCRPage `json:"pages"`
}

type mistralOCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// Extract reads a PDF file, sends it to Mistral OCR, and returns the
// concatenated page markdown.
func (m *MistralOCR) Extract(ctx context.Context, pdfPath string) (Result, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return Result{}, eris.Wrapf(err, "ocr: read PDF %s", pdfPath)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	dataURL := "data:application/pdf;base64," + encoded

	reqBody := mistralOCRRequest{
		Model: m.model,
		Document: mistralOCRDocument{
			Type:        "document_url",
			DocumentURL: dataURL,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, eris.Wrap(err, "ocr: marshal mistral request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return Result{}, eris.Wrap(err, "ocr: create mistral request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return Result{}, eris.Wrap(err, "ocr: mistral API call")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, eris.Wrap(err, "ocr: read mistral response")
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, eris.Errorf("ocr: mistral API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var ocrResp mistralOCRResponse
	if err := json.Unmarshal(respBody, &ocrResp); err != nil {
		return Result{}, eris.Wrap(err, "ocr: unmarshal mistral response")
	}

	var sb strings.Builder
	for i, page := range ocrResp.Pages {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(page.Markdown)
	}

	return Result{Text: sb.String(), Confidence: m.confidence, Engine: "mistral"}, nil
}
