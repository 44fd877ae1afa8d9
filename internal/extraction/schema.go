package extraction

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Wire-level docType literals produced by the model.
const (
	WireDocTypeInvoice       = "invoice"
	WireDocTypePurchaseOrder = "purchase_order"
	WireDocTypeReceipt       = "receipt"
	WireDocTypeOther         = "other"
)

// ExtractedData is the structured output of extraction. It is the exact
// contract the model must produce and the schema below enforces.
type ExtractedData struct {
	DocType     string      `json:"docType"`
	Confidence  float64     `json:"confidence"`
	Parties     Parties     `json:"parties"`
	Identifiers Identifiers `json:"identifiers"`
	Amounts     Amounts     `json:"amounts"`
	Dates       Dates       `json:"dates"`
	LineItems   []LineItem  `json:"lineItems"`
	Summary     string      `json:"summary"`
	RawNotes    *string     `json:"rawNotes"`
}

// Parties names the vendor and customer, when identified.
type Parties struct {
	Vendor   *string `json:"vendor"`
	Customer *string `json:"customer"`
}

// Identifiers carries document reference numbers.
type Identifiers struct {
	InvoiceNumber *string `json:"invoiceNumber"`
	PONumber      *string `json:"poNumber"`
}

// Amounts carries monetary totals and the currency code.
type Amounts struct {
	Subtotal *float64 `json:"subtotal"`
	Tax      *float64 `json:"tax"`
	Total    *float64 `json:"total"`
	Currency *string  `json:"currency"`
}

// Dates carries ISO dates (YYYY-MM-DD) when present.
type Dates struct {
	IssuedDate *string `json:"issuedDate"`
	DueDate    *string `json:"dueDate"`
}

// LineItem is one row of an itemized document.
type LineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unitPrice"`
	Amount      *float64 `json:"amount"`
}

// extractionSchemaJSON validates model output before the typed decode. Every
// field is required; nullable fields accept null but must be present. Unknown
// extra keys are tolerated and dropped by the typed decode.
const extractionSchemaJSON = `{
  "type": "object",
  "required": ["docType", "confidence", "parties", "identifiers", "amounts", "dates", "lineItems", "summary", "rawNotes"],
  "properties": {
    "docType": {"enum": ["invoice", "purchase_order", "receipt", "other"]},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "parties": {
      "type": "object",
      "required": ["vendor", "customer"],
      "properties": {
        "vendor": {"type": ["string", "null"]},
        "customer": {"type": ["string", "null"]}
      }
    },
    "identifiers": {
      "type": "object",
      "required": ["invoiceNumber", "poNumber"],
      "properties": {
        "invoiceNumber": {"type": ["string", "null"]},
        "poNumber": {"type": ["string", "null"]}
      }
    },
    "amounts": {
      "type": "object",
      "required": ["subtotal", "tax", "total", "currency"],
      "properties": {
        "subtotal": {"type": ["number", "null"]},
        "tax": {"type": ["number", "null"]},
        "total": {"type": ["number", "null"]},
        "currency": {"type": ["string", "null"]}
      }
    },
    "dates": {
      "type": "object",
      "required": ["issuedDate", "dueDate"],
      "properties": {
        "issuedDate": {"type": ["string", "null"]},
        "dueDate": {"type": ["string", "null"]}
      }
    },
    "lineItems": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["description", "quantity", "unitPrice", "amount"],
        "properties": {
          "description": {"type": ["string", "null"]},
          "quantity": {"type": ["number", "null"]},
          "unitPrice": {"type": ["number", "null"]},
          "amount": {"type": ["number", "null"]}
        }
      }
    },
    "summary": {"type": "string"},
    "rawNotes": {"type": ["string", "null"]}
  }
}`

var extractionSchema = jsonschema.MustCompileString("extraction.json", extractionSchemaJSON)

// ValidateExtraction checks raw model output against the extraction schema and
// decodes it into a typed value. Parse failures and schema violations come
// back as ErrInvalidJSON / ErrSchemaMismatch respectively.
func ValidateExtraction(raw []byte) (*ExtractedData, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := extractionSchema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	var out ExtractedData
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return &out, nil
}

// PlaceholderData synthesizes the record stored when classification from
// metadata fails: the document stays usable with type "other" and the
// original notes preserved.
func PlaceholderData(notes string) *ExtractedData {
	var rawNotes *string
	if notes != "" {
		rawNotes = &notes
	}
	return &ExtractedData{
		DocType:  WireDocTypeOther,
		Summary:  "",
		RawNotes: rawNotes,
	}
}
