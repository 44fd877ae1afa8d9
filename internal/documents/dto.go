package documents

import (
	"time"

	"docvault-backend/internal/extraction"
)

// DocumentResponse is the wire representation of a document.
type DocumentResponse struct {
	ID               string                     `json:"id"`
	OriginalFilename string                     `json:"originalFilename"`
	StoragePath      string                     `json:"storagePath"`
	MimeType         string                     `json:"mimeType"`
	Notes            *string                    `json:"notes"`
	Status           Status                     `json:"status"`
	DocType          *DocType                   `json:"docType"`
	ExtractedData    *extraction.ExtractedData  `json:"extractedData"`
	RawText          *string                    `json:"rawText"`
	ExtractedAt      *time.Time                 `json:"extractedAt"`
	CreatedAt        time.Time                  `json:"createdAt"`
	UpdatedAt        time.Time                  `json:"updatedAt"`
}

// ListResponse is a paginated page of documents.
type ListResponse struct {
	Items  []DocumentResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// DocumentQuestionResponse is the wire representation of a recorded
// question/answer exchange.
type DocumentQuestionResponse struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		ID:               doc.ID,
		OriginalFilename: doc.OriginalFilename,
		StoragePath:      doc.StorageKey,
		MimeType:         doc.MimeType,
		Notes:            doc.Notes,
		Status:           doc.Status,
		DocType:          doc.DocType,
		ExtractedData:    doc.ExtractedData,
		RawText:          doc.RawText,
		ExtractedAt:      doc.ExtractedAt,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
}

func toListResponse(result ListResult) ListResponse {
	items := make([]DocumentResponse, 0, len(result.Items))
	for _, doc := range result.Items {
		items = append(items, toResponse(doc))
	}
	return ListResponse{
		Items:  items,
		Total:  result.Total,
		Limit:  result.Limit,
		Offset: result.Offset,
	}
}

func toQuestionResponse(q DocumentQuestion) DocumentQuestionResponse {
	return DocumentQuestionResponse{
		ID:         q.ID,
		DocumentID: q.DocumentID,
		Question:   q.Question,
		Answer:     q.Answer,
		CreatedAt:  q.CreatedAt,
	}
}
