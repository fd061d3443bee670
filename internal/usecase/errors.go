package usecase

import "errors"

var (
	ErrInputMissing          = errors.New("no input document")
	ErrUnsupportedType       = errors.New("unsupported document type")
	ErrExtractionEmpty       = errors.New("no text extracted")
	ErrClassificationFailure = errors.New("classification failed")
	ErrInternal              = errors.New("internal error")

	ErrInvalidInput       = errors.New("invalid input")
	ErrAnalysisNotFound   = errors.New("analysis not found")
	ErrHistoryUnavailable = errors.New("analysis history unavailable")
)
