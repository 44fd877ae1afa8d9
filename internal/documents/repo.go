package documents

import (
	"context"
	"time"

	"docvault-backend/internal/extraction"
)

// ListFilter narrows List and Count. When FilterByIDs is set the result is
// restricted to IDs exactly; an empty ID slice then matches nothing.
type ListFilter struct {
	DocType     *DocType
	IDs         []string
	FilterByIDs bool
}

// UpdateFields is a partial update: nil fields are left untouched. The
// repository bumps updated_at on every call.
type UpdateFields struct {
	Status        *Status
	DocType       *DocType
	ExtractedData *extraction.ExtractedData
	RawText       *string
	ExtractedAt   *time.Time
}

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	Update(ctx context.Context, id string, fields UpdateFields) error
	GetByID(ctx context.Context, id string) (Document, error)
	List(ctx context.Context, filter ListFilter, limit, offset int) ([]Document, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	SearchIDs(ctx context.Context, query string) ([]string, error)
}

// QuestionsRepo defines persistence operations for document questions.
type QuestionsRepo interface {
	Create(ctx context.Context, q DocumentQuestion) error
}
