package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"docvault-backend/internal/extraction"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, original_filename, storage_key, mime_type, notes, status, doc_type,
       extracted_data, raw_text, extracted_at, created_at, updated_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
	id, original_filename, storage_key, mime_type, notes, status, doc_type,
	extracted_data, raw_text, extracted_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	payload, err := marshalExtracted(doc.ExtractedData)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.OriginalFilename,
		doc.StorageKey,
		doc.MimeType,
		doc.Notes,
		string(doc.Status),
		docTypeValue(doc.DocType),
		payload,
		doc.RawText,
		doc.ExtractedAt,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	return err
}

// Update applies a partial update and bumps updated_at.
func (r *PGRepo) Update(ctx context.Context, id string, fields UpdateFields) error {
	sets := []string{}
	args := []any{}
	idx := 1

	if fields.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", idx))
		args = append(args, string(*fields.Status))
		idx++
	}
	if fields.DocType != nil {
		sets = append(sets, fmt.Sprintf("doc_type = $%d", idx))
		args = append(args, string(*fields.DocType))
		idx++
	}
	if fields.ExtractedData != nil {
		payload, err := marshalExtracted(fields.ExtractedData)
		if err != nil {
			return err
		}
		sets = append(sets, fmt.Sprintf("extracted_data = $%d", idx))
		args = append(args, payload)
		idx++
	}
	if fields.RawText != nil {
		sets = append(sets, fmt.Sprintf("raw_text = $%d", idx))
		args = append(args, *fields.RawText)
		idx++
	}
	if fields.ExtractedAt != nil {
		sets = append(sets, fmt.Sprintf("extracted_at = $%d", idx))
		args = append(args, *fields.ExtractedAt)
		idx++
	}

	sets = append(sets, fmt.Sprintf("updated_at = $%d", idx))
	args = append(args, time.Now().UTC())
	idx++

	query := fmt.Sprintf("UPDATE documents SET %s WHERE id = $%d", strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID returns a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM documents WHERE id = $1 LIMIT 1`, documentColumns)
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	return doc, err
}

// List returns documents matching filter, newest first.
func (r *PGRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]Document, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`
SELECT %s
FROM documents
%s
ORDER BY created_at DESC
LIMIT $%d OFFSET $%d`, documentColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Count returns the number of documents matching filter.
func (r *PGRepo) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM documents %s`, where)
	var n int
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// SearchIDs runs full-text search over filename, notes and extracted data and
// returns matching document IDs.
func (r *PGRepo) SearchIDs(ctx context.Context, query string) ([]string, error) {
	const q = `
SELECT id
FROM documents
WHERE to_tsvector('english',
        coalesce(original_filename, '') || ' ' ||
        coalesce(notes, '') || ' ' ||
        coalesce(extracted_data::text, ''))
      @@ plainto_tsquery('english', $1)`
	rows, err := r.DB.QueryContext(ctx, q, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// PGQuestionsRepo implements QuestionsRepo using Postgres.
type PGQuestionsRepo struct {
	DB *sql.DB
}

// Create inserts a question/answer record.
func (r *PGQuestionsRepo) Create(ctx context.Context, q DocumentQuestion) error {
	const query = `
INSERT INTO document_questions (id, document_id, question, answer, created_at)
VALUES ($1, $2, $3, $4, $5)`
	_, err := r.DB.ExecContext(ctx, query, q.ID, q.DocumentID, q.Question, q.Answer, q.CreatedAt)
	return err
}

func buildWhere(filter ListFilter) (string, []any) {
	conds := []string{}
	args := []any{}

	if filter.DocType != nil {
		args = append(args, string(*filter.DocType))
		conds = append(conds, fmt.Sprintf("doc_type = $%d", len(args)))
	}
	if filter.FilterByIDs {
		if len(filter.IDs) == 0 {
			// A search that matched nothing must constrain to the empty set.
			conds = append(conds, "1 = 0")
		} else {
			placeholders := make([]string, 0, len(filter.IDs))
			for _, id := range filter.IDs {
				args = append(args, id)
				placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
			}
			conds = append(conds, fmt.Sprintf("id IN (%s)", strings.Join(placeholders, ", ")))
		}
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var notes sql.NullString
	var status string
	var docType sql.NullString
	var extracted sql.NullString
	var rawText sql.NullString
	var extractedAt sql.NullTime

	if err := row.Scan(
		&doc.ID,
		&doc.OriginalFilename,
		&doc.StorageKey,
		&doc.MimeType,
		&notes,
		&status,
		&docType,
		&extracted,
		&rawText,
		&extractedAt,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return Document{}, err
	}

	doc.Status = Status(status)
	if notes.Valid {
		doc.Notes = &notes.String
	}
	if docType.Valid {
		dt := DocType(docType.String)
		doc.DocType = &dt
	}
	if extracted.Valid && extracted.String != "" {
		var data extraction.ExtractedData
		if err := json.Unmarshal([]byte(extracted.String), &data); err != nil {
			return Document{}, fmt.Errorf("decode extracted_data for %s: %w", doc.ID, err)
		}
		doc.ExtractedData = &data
	}
	if rawText.Valid {
		doc.RawText = &rawText.String
	}
	if extractedAt.Valid {
		t := extractedAt.Time
		doc.ExtractedAt = &t
	}
	return doc, nil
}

func marshalExtracted(data *extraction.ExtractedData) (any, error) {
	if data == nil {
		return nil, nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode extracted data: %w", err)
	}
	return string(payload), nil
}

func docTypeValue(dt *DocType) any {
	if dt == nil {
		return nil
	}
	return string(*dt)
}
