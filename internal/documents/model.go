package documents

import (
	"strings"
	"time"

	"docvault-backend/internal/extraction"
)

// Status tracks a document through the ingestion pipeline.
type Status string

const (
	StatusUploaded  Status = "UPLOADED"
	StatusProcessed Status = "PROCESSED"
	StatusFailed    Status = "FAILED"
	StatusNeedsText Status = "NEEDS_TEXT"
)

// DocType is the classified business category of a document.
type DocType string

const (
	DocTypeInvoice       DocType = "INVOICE"
	DocTypePurchaseOrder DocType = "PURCHASE_ORDER"
	DocTypeReceipt       DocType = "RECEIPT"
	DocTypeOther         DocType = "OTHER"
)

// DocTypeFromWire maps the model's lowercase docType to the stored enum.
// Unknown values fall back to OTHER.
func DocTypeFromWire(wire string) DocType {
	switch strings.ToLower(strings.TrimSpace(wire)) {
	case extraction.WireDocTypeInvoice:
		return DocTypeInvoice
	case extraction.WireDocTypePurchaseOrder:
		return DocTypePurchaseOrder
	case extraction.WireDocTypeReceipt:
		return DocTypeReceipt
	default:
		return DocTypeOther
	}
}

// ParseDocType reports the DocType matching s (case-insensitive), if any.
func ParseDocType(s string) (DocType, bool) {
	switch DocType(strings.ToUpper(strings.TrimSpace(s))) {
	case DocTypeInvoice:
		return DocTypeInvoice, true
	case DocTypePurchaseOrder:
		return DocTypePurchaseOrder, true
	case DocTypeReceipt:
		return DocTypeReceipt, true
	case DocTypeOther:
		return DocTypeOther, true
	default:
		return "", false
	}
}

// Document is an uploaded file plus whatever the extraction pipeline has
// committed for it so far.
type Document struct {
	ID               string
	OriginalFilename string
	StorageKey       string
	MimeType         string
	Notes            *string
	Status           Status
	DocType          *DocType
	ExtractedData    *extraction.ExtractedData
	RawText          *string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DocumentQuestion records one question asked against a document and the
// answer that was returned.
type DocumentQuestion struct {
	ID         string
	DocumentID string
	Question   string
	Answer     string
	CreatedAt  time.Time
}
