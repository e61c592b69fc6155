// Package apperr defines sentinel errors shared across the pipeline.
package apperr

import "errors"

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrScannedPDF        = errors.New("pdf has no text layer")
	ErrUnknownShape      = errors.New("unknown content shape")
	ErrClassifierFailed  = errors.New("classifier request failed")
)
