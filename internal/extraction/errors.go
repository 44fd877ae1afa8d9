package extraction

import "errors"

var (
	// ErrInvalidJSON means the model response did not parse as JSON.
	ErrInvalidJSON = errors.New("invalid JSON from model")

	// ErrSchemaMismatch means the parsed response violated the extraction schema.
	ErrSchemaMismatch = errors.New("schema validation failed")
)
