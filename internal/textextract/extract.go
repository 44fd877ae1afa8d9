package textextract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"docvault-backend/internal/shared/storage/object"
)

const mimePDF = "application/pdf"

// FromObject pulls text out of a stored object. Only PDF and plain-text
// payloads are supported; scanned images need OCR and stay unsupported.
func FromObject(ctx context.Context, store object.ObjectStore, storageKey, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("text extract key=%s mime=%s: %w", storageKey, mimeType, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("text extract key=%s mime=%s: read: %w", storageKey, mimeType, err)
	}

	text, err := FromBytes(raw, mimeType)
	if err != nil {
		return "", fmt.Errorf("text extract key=%s mime=%s: %w", storageKey, mimeType, err)
	}
	return text, nil
}

// FromBytes extracts text from an in-memory payload.
func FromBytes(data []byte, mimeType string) (string, error) {
	switch normalizeMimeType(mimeType) {
	case mimePDF:
		return extractPDF(data)
	case "text/plain":
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported mime type: %s", mimeType)
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeMimeType(mimeType string) string {
	return strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
}
