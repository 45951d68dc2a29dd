package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnsupportedFormat is returned for uploads with a disallowed file extension
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrOCRFailure is returned when the OCR collaborator request fails
	ErrOCRFailure = errors.New("OCR service request failed")

	// ErrNoText is returned when the OCR collaborator recognized nothing
	ErrNoText = errors.New("no text recognized in image")

	// ErrRefinerFailure is returned when the LLM refinement request fails
	ErrRefinerFailure = errors.New("refinement service request failed")

	// ErrEmptyCSV is returned when the supplied CSV has no data rows
	ErrEmptyCSV = errors.New("CSV contains no data rows")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
