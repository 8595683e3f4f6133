package render

import "errors"

var (
	// ErrTagDropped indicates rendered prose that lost an embedded tag token.
	// Usage: if errors.Is(err, ErrTagDropped) { /* fall back to templates */ }.
	ErrTagDropped = errors.New("render: tag token dropped")

	// ErrMissingValue indicates a placeholder without a substitution value.
	ErrMissingValue = errors.New("render: missing placeholder value")

	// ErrEmptyResponse indicates an external renderer that returned nothing.
	ErrEmptyResponse = errors.New("render: empty response")
)
