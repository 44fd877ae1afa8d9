package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault-backend/internal/extraction"
	"docvault-backend/internal/shared/storage/object"
	"docvault-backend/internal/shared/telemetry"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxQueryChars    = 500
)

var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Service contains business logic for documents.
type Service struct {
	Store     object.ObjectStore
	Repo      DocumentsRepo
	Questions QuestionsRepo
	Extractor *extraction.Extractor
}

// Create stores the upload, records it as UPLOADED and then runs extraction
// synchronously. The outcome is committed before Create returns:
// PROCESSED or FAILED for text documents, NEEDS_TEXT for binary ones.
// declaredMime is the client-declared content type from the multipart part
// header; it wins over content sniffing when it carries real information.
func (s *Service) Create(ctx context.Context, filename, notes, declaredMime string, r io.Reader) (Document, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return Document{}, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return Document{}, fmt.Errorf("%w: extension %q is not allowed", ErrInvalidFileType, ext)
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}

	storageKey, _, sniffedMime, err := s.Store.Save(ctx, filename, bytes.NewReader(content))
	if err != nil {
		return Document{}, fmt.Errorf("save upload: %w", err)
	}

	// Multipart writers fall back to application/octet-stream when the client
	// declared nothing; only a real declaration overrides sniffing.
	mimeType := strings.TrimSpace(declaredMime)
	if mimeType == "" || strings.HasPrefix(mimeType, "application/octet-stream") {
		mimeType = sniffedMime
	}

	now := time.Now().UTC()
	doc := Document{
		ID:               uuid.NewString(),
		OriginalFilename: filename,
		StorageKey:       storageKey,
		MimeType:         mimeType,
		Notes:            optional(strings.TrimSpace(notes)),
		Status:           StatusUploaded,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("persist document: %w", err)
	}

	var extractErr error
	if strings.HasPrefix(mimeType, "text/plain") {
		extractErr = s.extractFromText(ctx, doc, string(content))
	} else {
		s.classifyFromMetadata(ctx, doc)
	}

	stored, err := s.Repo.GetByID(ctx, doc.ID)
	if err != nil {
		return Document{}, err
	}
	if extractErr != nil {
		return stored, extractErr
	}
	return stored, nil
}

// extractFromText runs the full extraction protocol over the document text
// and commits PROCESSED or FAILED. The FAILED transition is committed before
// the error is surfaced.
func (s *Service) extractFromText(ctx context.Context, doc Document, text string) error {
	data, err := s.Extractor.ClassifyAndExtract(ctx, doc.OriginalFilename, deref(doc.Notes), text)
	if err != nil {
		telemetry.Error("document.extraction_failed", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
		failed := StatusFailed
		if uerr := s.Repo.Update(ctx, doc.ID, UpdateFields{Status: &failed}); uerr != nil {
			return fmt.Errorf("mark document failed: %w", uerr)
		}
		return fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	processed := StatusProcessed
	docType := DocTypeFromWire(data.DocType)
	at := time.Now().UTC()
	return s.Repo.Update(ctx, doc.ID, UpdateFields{
		Status:        &processed,
		DocType:       &docType,
		ExtractedData: data,
		RawText:       &text,
		ExtractedAt:   &at,
	})
}

// classifyFromMetadata handles binary uploads: a best-effort classification
// from filename and notes, always ending in NEEDS_TEXT. Model failures fall
// back to a minimal placeholder record rather than failing the upload.
// extractedAt stays null: it marks full extraction, which has not happened.
func (s *Service) classifyFromMetadata(ctx context.Context, doc Document) {
	needsText := StatusNeedsText

	data, err := s.Extractor.ClassifyAndExtract(ctx, doc.OriginalFilename, deref(doc.Notes), "")
	if err != nil {
		telemetry.Warn("document.metadata_classification_failed", map[string]any{
			"documentId": doc.ID,
			"error":      err.Error(),
		})
		data = extraction.PlaceholderData(deref(doc.Notes))
	}

	docType := DocTypeFromWire(data.DocType)
	if uerr := s.Repo.Update(ctx, doc.ID, UpdateFields{
		Status:        &needsText,
		DocType:       &docType,
		ExtractedData: data,
	}); uerr != nil {
		telemetry.Error("document.update_failed", map[string]any{
			"documentId": doc.ID,
			"error":      uerr.Error(),
		})
	}
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	return s.Repo.GetByID(ctx, id)
}

// ListResult is a page of documents plus the total match count.
type ListResult struct {
	Items  []Document
	Total  int
	Limit  int
	Offset int
}

// List returns a filtered, paginated page of documents, newest first.
// docType filters by category; query runs full-text search.
func (s *Service) List(ctx context.Context, docType, query string, limit, offset int) (ListResult, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	filter, err := s.buildFilter(ctx, docType, query)
	if err != nil {
		return ListResult{}, err
	}

	items, err := s.Repo.List(ctx, filter, limit, offset)
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.Repo.Count(ctx, filter)
	if err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) buildFilter(ctx context.Context, docType, query string) (ListFilter, error) {
	filter := ListFilter{}

	// Unrecognized type values are ignored rather than rejected: the filter
	// only narrows when it names a known category.
	if dt, ok := ParseDocType(docType); ok {
		filter.DocType = &dt
	}

	q := normalizeQuery(query)
	if q != "" {
		ids, err := s.Repo.SearchIDs(ctx, q)
		if err != nil {
			return ListFilter{}, err
		}
		// Zero matches must yield an empty page, not an unfiltered one.
		filter.IDs = ids
		filter.FilterByIDs = true
	}
	return filter, nil
}

// AskQuestion answers a question against a document's committed extraction
// state and records the exchange.
func (s *Service) AskQuestion(ctx context.Context, documentID, question string) (DocumentQuestion, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return DocumentQuestion{}, fmt.Errorf("%w: question is required", ErrInvalidInput)
	}

	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		return DocumentQuestion{}, err
	}

	data := doc.ExtractedData
	if data == nil {
		data = extraction.PlaceholderData(deref(doc.Notes))
	}

	answer, err := s.Extractor.AnswerQuestion(ctx, data, deref(doc.RawText), question)
	if err != nil {
		return DocumentQuestion{}, fmt.Errorf("answer question: %w", err)
	}

	q := DocumentQuestion{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Question:   question,
		Answer:     answer,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.Questions.Create(ctx, q); err != nil {
		return DocumentQuestion{}, fmt.Errorf("persist question: %w", err)
	}
	return q, nil
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return defaultListLimit
	case limit < 1:
		return 1
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

// normalizeQuery trims, collapses internal whitespace and caps the length of
// a search query.
func normalizeQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	runes := []rune(q)
	if len(runes) > maxQueryChars {
		q = string(runes[:maxQueryChars])
	}
	return q
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
