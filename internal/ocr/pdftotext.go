package ocr

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/rotisserie/eris"
)

// PdfToText extracts text from PDFs using the pdftotext CLI tool. It reads
// the embedded text layer directly, so extraction confidence is 1.0.
type PdfToText struct {
	binPath string
}

// NewPdfToText creates a PdfToText engine. If binPath is empty, "pdftotext"
// is resolved from PATH.
func NewPdfToText(binPath string) *PdfToText {
	if binPath == "" {
		binPath = "pdftotext"
	}
	return &PdfToText{binPath: binPath}
}

// Extract runs pdftotext -layout on the given PDF and returns stdout.
func (p *PdfToText) Extract(ctx context.Context, pdfPath string) (Result, error) {
	cmd := exec.CommandContext(ctx, p.binPath, "-layout", pdfPath, "-")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Result{}, eris.Wrapf(err, "ocr: pdftotext failed for %s: %s", pdfPath, stderr.String())
	}

	return Result{Text: stdout.String(), Confidence: 1.0, Engine: "pdftotext"}, nil
}
