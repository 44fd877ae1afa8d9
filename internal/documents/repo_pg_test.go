package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newPGRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newPGRepo(t)

	now := time.Now().UTC()
	notes := "august invoice"
	doc := Document{
		ID:               "doc-1",
		OriginalFilename: "invoice.txt",
		StorageKey:       "ab12_invoice.txt",
		MimeType:         "text/plain; charset=utf-8",
		Notes:            &notes,
		Status:           StatusUploaded,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.OriginalFilename,
			doc.StorageKey,
			doc.MimeType,
			&notes,
			"UPLOADED",
			nil, // doc_type
			nil, // extracted_data
			nil, // raw_text
			nil, // extracted_at
			now,
			now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateBuildsPartialSet(t *testing.T) {
	repo, mock := newPGRepo(t)

	failed := StatusFailed
	mock.ExpectExec("UPDATE documents SET status = \\$1, updated_at = \\$2 WHERE id = \\$3").
		WithArgs("FAILED", sqlmock.AnyArg(), "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Update(context.Background(), "doc-1", UpdateFields{Status: &failed}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateNotFound(t *testing.T) {
	repo, mock := newPGRepo(t)

	processed := StatusProcessed
	mock.ExpectExec("UPDATE documents SET").
		WithArgs("PROCESSED", sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), "missing", UpdateFields{Status: &processed})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "original_filename", "storage_key", "mime_type", "notes", "status", "doc_type",
		"extracted_data", "raw_text", "extracted_at", "created_at", "updated_at",
	})
}

func TestPGRepoGetByIDDecodesExtractedData(t *testing.T) {
	repo, mock := newPGRepo(t)

	now := time.Now().UTC()
	extracted := `{"docType":"invoice","confidence":0.9,"parties":{"vendor":"Acme","customer":null},` +
		`"identifiers":{"invoiceNumber":"INV-7","poNumber":null},` +
		`"amounts":{"subtotal":null,"tax":null,"total":120,"currency":"USD"},` +
		`"dates":{"issuedDate":null,"dueDate":null},"lineItems":null,"summary":"s","rawNotes":null}`

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = \\$1").
		WithArgs("doc-1").
		WillReturnRows(documentRows().AddRow(
			"doc-1", "invoice.txt", "key", "text/plain", nil, "PROCESSED", "INVOICE",
			extracted, "raw text", now, now, now,
		))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Status != StatusProcessed {
		t.Fatalf("expected PROCESSED, got %s", doc.Status)
	}
	if doc.DocType == nil || *doc.DocType != DocTypeInvoice {
		t.Fatalf("expected INVOICE, got %v", doc.DocType)
	}
	if doc.ExtractedData == nil || doc.ExtractedData.Amounts.Total == nil || *doc.ExtractedData.Amounts.Total != 120 {
		t.Fatalf("extracted data not decoded: %+v", doc.ExtractedData)
	}
	if doc.Notes != nil {
		t.Fatalf("expected nil notes")
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(documentRows())

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListEmptyIDFilterMatchesNothing(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM documents WHERE 1 = 0").
		WithArgs(20, 0).
		WillReturnRows(documentRows())

	docs, err := repo.List(context.Background(), ListFilter{FilterByIDs: true}, 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty result, got %d", len(docs))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListCombinesTypeAndIDFilter(t *testing.T) {
	repo, mock := newPGRepo(t)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE doc_type = \\$1 AND id IN \\(\\$2, \\$3\\)").
		WithArgs("INVOICE", "a", "b", 10, 0).
		WillReturnRows(documentRows().AddRow(
			"a", "a.txt", "key-a", "text/plain", nil, "PROCESSED", "INVOICE",
			nil, nil, nil, now, now,
		))

	invoice := DocTypeInvoice
	docs, err := repo.List(context.Background(), ListFilter{
		DocType:     &invoice,
		IDs:         []string{"a", "b"},
		FilterByIDs: true,
	}, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != "a" {
		t.Fatalf("unexpected result %+v", docs)
	}
}

func TestPGRepoCountWithFilter(t *testing.T) {
	repo, mock := newPGRepo(t)

	receipt := DocTypeReceipt
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents WHERE doc_type = \\$1").
		WithArgs("RECEIPT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.Count(context.Background(), ListFilter{DocType: &receipt})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3, got %d", n)
	}
}

func TestPGRepoSearchIDs(t *testing.T) {
	repo, mock := newPGRepo(t)

	mock.ExpectQuery("plainto_tsquery").
		WithArgs("acme invoice").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("doc-1").AddRow("doc-2"))

	ids, err := repo.SearchIDs(context.Background(), "acme invoice")
	if err != nil {
		t.Fatalf("SearchIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "doc-1" || ids[1] != "doc-2" {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestPGQuestionsRepoCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGQuestionsRepo{DB: db}

	now := time.Now().UTC()
	mock.ExpectExec("INSERT INTO document_questions").
		WithArgs("q-1", "doc-1", "Total?", "The total is $120.", now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Create(context.Background(), DocumentQuestion{
		ID:         "q-1",
		DocumentID: "doc-1",
		Question:   "Total?",
		Answer:     "The total is $120.",
		CreatedAt:  now,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
