package documents

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory DocumentsRepo for dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: map[string]Document{}}
}

// Create stores a new document.
func (r *MemoryRepo) Create(_ context.Context, doc Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

// Update applies a partial update and bumps UpdatedAt.
func (r *MemoryRepo) Update(_ context.Context, id string, fields UpdateFields) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[id]
	if !ok {
		return ErrNotFound
	}
	if fields.Status != nil {
		doc.Status = *fields.Status
	}
	if fields.DocType != nil {
		doc.DocType = fields.DocType
	}
	if fields.ExtractedData != nil {
		doc.ExtractedData = fields.ExtractedData
	}
	if fields.RawText != nil {
		doc.RawText = fields.RawText
	}
	if fields.ExtractedAt != nil {
		doc.ExtractedAt = fields.ExtractedAt
	}
	doc.UpdatedAt = time.Now().UTC()
	r.docs[id] = doc
	return nil
}

// GetByID returns a document by ID.
func (r *MemoryRepo) GetByID(_ context.Context, id string) (Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// List returns documents matching filter, newest first.
func (r *MemoryRepo) List(_ context.Context, filter ListFilter, limit, offset int) ([]Document, error) {
	matched := r.matching(filter)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return []Document{}, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

// Count returns the number of documents matching filter.
func (r *MemoryRepo) Count(_ context.Context, filter ListFilter) (int, error) {
	return len(r.matching(filter)), nil
}

// SearchIDs approximates full-text search with case-insensitive token
// matching over filename, notes and the extracted data payload.
func (r *MemoryRepo) SearchIDs(_ context.Context, query string) ([]string, error) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return []string{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := []string{}
	for _, doc := range r.docs {
		if matchesTokens(doc, tokens) {
			ids = append(ids, doc.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *MemoryRepo) matching(filter ListFilter) []Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	allowed := map[string]bool{}
	for _, id := range filter.IDs {
		allowed[id] = true
	}

	matched := []Document{}
	for _, doc := range r.docs {
		if filter.DocType != nil && (doc.DocType == nil || *doc.DocType != *filter.DocType) {
			continue
		}
		if filter.FilterByIDs && !allowed[doc.ID] {
			continue
		}
		matched = append(matched, doc)
	}
	return matched
}

func matchesTokens(doc Document, tokens []string) bool {
	var b strings.Builder
	b.WriteString(doc.OriginalFilename)
	if doc.Notes != nil {
		b.WriteString(" ")
		b.WriteString(*doc.Notes)
	}
	if doc.ExtractedData != nil {
		if payload, err := json.Marshal(doc.ExtractedData); err == nil {
			b.WriteString(" ")
			b.Write(payload)
		}
	}
	haystack := strings.ToLower(b.String())

	for _, token := range tokens {
		if !strings.Contains(haystack, token) {
			return false
		}
	}
	return true
}

// MemoryQuestionsRepo is an in-memory QuestionsRepo.
type MemoryQuestionsRepo struct {
	mu        sync.Mutex
	questions []DocumentQuestion
}

// NewMemoryQuestionsRepo constructs an empty MemoryQuestionsRepo.
func NewMemoryQuestionsRepo() *MemoryQuestionsRepo {
	return &MemoryQuestionsRepo{}
}

// Create stores a question/answer record.
func (r *MemoryQuestionsRepo) Create(_ context.Context, q DocumentQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions = append(r.questions, q)
	return nil
}

// All returns a copy of every stored question, oldest first. Test helper.
func (r *MemoryQuestionsRepo) All() []DocumentQuestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]DocumentQuestion, len(r.questions))
	copy(out, r.questions)
	return out
}
