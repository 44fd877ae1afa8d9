package documents

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidInput indicates a request failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidFileType indicates the uploaded file's extension is not allowed.
	ErrInvalidFileType = errors.New("invalid file type")
	// ErrExtractionFailed indicates both extraction attempts produced unusable
	// output; the document is committed as FAILED before this is surfaced.
	ErrExtractionFailed = errors.New("extraction failed")
)

// Wire error codes for the error envelope.
const (
	CodeValidationError  = "VALIDATION_ERROR"
	CodeInvalidFileType  = "INVALID_FILE_TYPE"
	CodeNotFound         = "NOT_FOUND"
	CodeExtractionFailed = "EXTRACTION_FAILED"
	CodeInternalError    = "INTERNAL_ERROR"
)
