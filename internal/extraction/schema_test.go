package extraction

import (
	"errors"
	"strings"
	"testing"
)

const validPayload = `{
  "docType": "invoice",
  "confidence": 0.92,
  "parties": {"vendor": "Acme", "customer": "Client Inc."},
  "identifiers": {"invoiceNumber": "INV-100", "poNumber": null},
  "amounts": {"subtotal": 100, "tax": 10, "total": 110, "currency": "USD"},
  "dates": {"issuedDate": "2026-08-01", "dueDate": null},
  "lineItems": [
    {"description": "Widget", "quantity": 2, "unitPrice": 50, "amount": 100}
  ],
  "summary": "Invoice from Acme to Client Inc.",
  "rawNotes": null
}`

func TestValidateExtractionAcceptsValidPayload(t *testing.T) {
	data, err := ValidateExtraction([]byte(validPayload))
	if err != nil {
		t.Fatalf("ValidateExtraction: %v", err)
	}
	if data.DocType != WireDocTypeInvoice {
		t.Fatalf("expected docType invoice, got %q", data.DocType)
	}
	if data.Confidence != 0.92 {
		t.Fatalf("expected confidence 0.92, got %v", data.Confidence)
	}
	if data.Parties.Vendor == nil || *data.Parties.Vendor != "Acme" {
		t.Fatalf("expected vendor Acme, got %v", data.Parties.Vendor)
	}
	if data.Identifiers.PONumber != nil {
		t.Fatalf("expected nil poNumber")
	}
	if data.Amounts.Total == nil || *data.Amounts.Total != 110 {
		t.Fatalf("expected total 110, got %v", data.Amounts.Total)
	}
	if len(data.LineItems) != 1 {
		t.Fatalf("expected one line item, got %d", len(data.LineItems))
	}
}

func TestValidateExtractionRejectsStructuralViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		wantErr error
	}{
		{
			name:    "not json",
			mutate:  func(string) string { return "here is the invoice you asked about" },
			wantErr: ErrInvalidJSON,
		},
		{
			name:    "unknown docType",
			mutate:  func(s string) string { return strings.Replace(s, `"invoice"`, `"contract"`, 1) },
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "confidence out of range",
			mutate:  func(s string) string { return strings.Replace(s, "0.92", "1.5", 1) },
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "amount as string",
			mutate:  func(s string) string { return strings.Replace(s, `"total": 110`, `"total": "110"`, 1) },
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "missing summary",
			mutate:  func(s string) string { return strings.Replace(s, `"summary": "Invoice from Acme to Client Inc.",`, "", 1) },
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "null summary",
			mutate:  func(s string) string { return strings.Replace(s, `"Invoice from Acme to Client Inc."`, "null", 1) },
			wantErr: ErrSchemaMismatch,
		},
		{
			name:    "line item quantity as string",
			mutate:  func(s string) string { return strings.Replace(s, `"quantity": 2`, `"quantity": "2"`, 1) },
			wantErr: ErrSchemaMismatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateExtraction([]byte(tt.mutate(validPayload)))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateExtractionToleratesNullLineItems(t *testing.T) {
	payload := strings.Replace(validPayload,
		`[
    {"description": "Widget", "quantity": 2, "unitPrice": 50, "amount": 100}
  ]`, "null", 1)
	data, err := ValidateExtraction([]byte(payload))
	if err != nil {
		t.Fatalf("ValidateExtraction: %v", err)
	}
	if data.LineItems != nil {
		t.Fatalf("expected nil lineItems, got %v", data.LineItems)
	}
}

func TestPlaceholderDataIsSchemaCompatible(t *testing.T) {
	p := PlaceholderData("two invoices from acme")
	if p.DocType != WireDocTypeOther {
		t.Fatalf("expected docType other, got %q", p.DocType)
	}
	if p.Summary != "" {
		t.Fatalf("expected empty summary, got %q", p.Summary)
	}
	if p.RawNotes == nil || *p.RawNotes != "two invoices from acme" {
		t.Fatalf("expected rawNotes preserved, got %v", p.RawNotes)
	}
	if PlaceholderData("").RawNotes != nil {
		t.Fatalf("expected nil rawNotes for empty notes")
	}
}
