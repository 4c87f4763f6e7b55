package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"
)

// ErrUnsupportedType means the attachment is neither a PDF nor a raster
// image.
var ErrUnsupportedType = errors.New("unsupported attachment type")

// Document is one uploaded attachment.
type Document struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Extractor converts an attached document into plain text: concatenated
// per-page text for PDFs, OCR for images. The result is trimmed; typed text
// and extracted text are indistinguishable once stored.
type Extractor struct {
	languages []string // tesseract language codes, e.g. "eng"
	maxBytes  int64
}

func New(languages []string, maxBytes int64) *Extractor {
	return &Extractor{languages: languages, maxBytes: maxBytes}
}

func (e *Extractor) Text(doc Document) (string, error) {
	if e.maxBytes > 0 && int64(len(doc.Data)) > e.maxBytes {
		return "", fmt.Errorf("attachment %s exceeds %d bytes", doc.Filename, e.maxBytes)
	}

	switch {
	case doc.MIMEType == "application/pdf":
		return e.pdfText(doc)
	case strings.HasPrefix(doc.MIMEType, "image/"):
		return e.imageText(doc)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, doc.MIMEType)
	}
}

func (e *Extractor) pdfText(doc Document) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(doc.Data), int64(len(doc.Data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf %s: %w", doc.Filename, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text from %s: %w", doc.Filename, err)
	}
	text, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text from %s: %w", doc.Filename, err)
	}
	return strings.TrimSpace(string(text)), nil
}

func (e *Extractor) imageText(doc Document) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(e.languages) > 0 {
		if err := client.SetLanguage(e.languages...); err != nil {
			return "", fmt.Errorf("configure ocr languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(doc.Data); err != nil {
		return "", fmt.Errorf("load image %s: %w", doc.Filename, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", doc.Filename, err)
	}
	return strings.TrimSpace(text), nil
}
