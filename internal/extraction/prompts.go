package extraction

import "fmt"

// extractionSystem is fixed at the protocol level: it describes the exact JSON
// object shape the model must emit, field by field.
const extractionSystem = `You are a document extraction assistant. Output ONLY valid JSON matching this exact schema (no markdown, no prose):
{
  "docType": "invoice" | "purchase_order" | "receipt" | "other",
  "confidence": number between 0 and 1,
  "parties": { "vendor": string|null, "customer": string|null },
  "identifiers": { "invoiceNumber": string|null, "poNumber": string|null },
  "amounts": { "subtotal": number|null, "tax": number|null, "total": number|null, "currency": string|null },
  "dates": { "issuedDate": string|null (YYYY-MM-DD or null), "dueDate": string|null (YYYY-MM-DD or null) },
  "lineItems": [ { "description": string|null, "quantity": number|null, "unitPrice": number|null, "amount": number|null } ] | null,
  "summary": string (brief summary),
  "rawNotes": string|null
}`

// strictSystemSuffix is appended to the system instruction on the retry attempt.
const strictSystemSuffix = "\n\nOutput ONLY the JSON object, no markdown."

const answerSystem = "Answer the user question based only on the provided document context. Be concise."

func buildExtractionUserPrompt(text, filename, notes string) string {
	return fmt.Sprintf("Extract structured data from this document.\nFilename: %s\nNotes: %s\n\nDocument text:\n%s",
		filename, orNone(notes), text)
}

func buildMetadataOnlyPrompt(filename, notes string) string {
	return fmt.Sprintf("Classify this document from filename and notes only. Use minimal placeholders for missing fields (null where appropriate).\nFilename: %s\nNotes: %s",
		filename, orNone(notes))
}

func buildStrictRetryPrompt(rawResponse string) string {
	return fmt.Sprintf("Output ONLY a single JSON object. No markdown code blocks, no explanation. Valid JSON only:\n\n%s", rawResponse)
}

func orNone(notes string) string {
	if notes == "" {
		return "(none)"
	}
	return notes
}
