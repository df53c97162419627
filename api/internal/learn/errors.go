package learn

import "errors"

var (
	// ErrEmptyGeneration means the provider answered without any content.
	ErrEmptyGeneration = errors.New("provider returned no content")
	// ErrMalformedResponse means the content was not JSON of the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// ValidationError is a rejected request field. Message is user-facing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
