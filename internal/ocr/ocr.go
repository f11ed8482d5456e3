package ocr

import (
	"context"

	"github.com/rotisserie/eris"
)

// Result is the output of a text-extraction run over a single document.
type Result struct {
	Text       string
	Confidence float64
	Engine     string
}

// Engine extracts text content from PDF files.
type Engine interface {
	Extract(ctx context.Context, pdfPath string) (Result, error)
}

// Options configure engine construction.
type Options struct {
	Provider          string
	PdfToTextPath     string
	MistralAPIKey     string
	MistralModel      string
	MistralConfidence float64
}

// NewEngine creates an Engine based on the options.
func NewEngine(opts Options) (Engine, error) {
	switch opts.Provider {
	case "local", "":
		return NewPdfToText(opts.PdfToTextPath), nil
	case "mistral":
		if opts.MistralAPIKey == "" {
			return nil, eris.New("ocr: mistral provider requires mistral_api_key")
		}
		return NewMistralOCR(opts.MistralAPIKey, opts.MistralModel, opts.MistralConfidence), nil
	default:
		return nil, eris.Errorf("ocr: unknown provider %q", opts.Provider)
	}
}
