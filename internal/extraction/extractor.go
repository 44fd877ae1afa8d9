package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"docvault-backend/internal/llm"
	"docvault-backend/internal/shared/telemetry"
)

const (
	// maxExtractionAttempts bounds the classify-and-extract protocol: one
	// initial call plus one strict retry.
	maxExtractionAttempts = 2

	defaultMaxTextChars = 15000
	maxAnswerTextChars  = 8000

	extractionTemperature = 0.1
	answerTemperature     = 0.2

	answerFallback = "No answer generated."
)

// Extractor runs the LLM extraction and question-answering protocols.
type Extractor struct {
	LLM          llm.Client
	MaxTextChars int
}

// ClassifyAndExtract asks the model for a structured ExtractedData record.
// With text present it performs full-field extraction over the (truncated)
// text; otherwise it classifies from filename and notes alone.
//
// Parse and schema failures, and empty responses, are retried exactly once
// with a stricter instruction wrapping the previous raw response. Transport
// and provider errors propagate immediately without a retry.
func (e *Extractor) ClassifyAndExtract(ctx context.Context, filename, notes, text string) (*ExtractedData, error) {
	maxChars := e.MaxTextChars
	if maxChars <= 0 {
		maxChars = defaultMaxTextChars
	}
	truncated := truncateRunes(text, maxChars)

	system := extractionSystem
	var user string
	if truncated != "" {
		user = buildExtractionUserPrompt(truncated, filename, notes)
	} else {
		user = buildMetadataOnlyPrompt(filename, notes)
	}

	var lastErr error
	for attempt := 1; attempt <= maxExtractionAttempts; attempt++ {
		raw, err := e.LLM.Complete(ctx, system, user, true, extractionTemperature)
		if err != nil && !errors.Is(err, llm.ErrEmptyResponse) {
			return nil, err
		}

		if err != nil {
			lastErr = err
		} else {
			data, verr := ValidateExtraction([]byte(stripCodeFences(raw)))
			if verr == nil {
				return data, nil
			}
			// The invalid response body is discarded; only the reason is kept.
			telemetry.Warn("extract.invalid_response", map[string]any{
				"attempt":  attempt,
				"filename": filename,
				"reason":   verr.Error(),
			})
			lastErr = verr
		}

		system = extractionSystem + strictSystemSuffix
		user = buildStrictRetryPrompt(raw)
	}
	return nil, fmt.Errorf("classify and extract %q: %w", filename, lastErr)
}

// AnswerQuestion answers a free-form question from a document's committed
// extraction state. Single model call: no retry, no schema validation.
func (e *Extractor) AnswerQuestion(ctx context.Context, extracted *ExtractedData, rawText, question string) (string, error) {
	payload, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal extracted data: %w", err)
	}

	var b strings.Builder
	b.WriteString("Structured extracted data (JSON):\n")
	b.Write(payload)
	if rawText != "" {
		b.WriteString("\n\nRaw text snippet:\n")
		b.WriteString(truncateRunes(rawText, maxAnswerTextChars))
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)

	answer, err := e.LLM.Complete(ctx, answerSystem, b.String(), false, answerTemperature)
	if errors.Is(err, llm.ErrEmptyResponse) {
		return answerFallback, nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

var (
	fenceOpen  = regexp.MustCompile("(?i)^```json\\s*")
	fenceClose = regexp.MustCompile("\\s*```$")
)

// stripCodeFences removes Markdown code-fence wrapping when the model ignored
// the bare-JSON instruction.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = fenceOpen.ReplaceAllString(cleaned, "")
	cleaned = fenceClose.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
