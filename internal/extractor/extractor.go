package extractor

import (
	"context"
	"errors"
)

var (
	ErrUnreadable = errors.New("document unreadable")
)

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	Supports(filename string) bool
	Extract(ctx context.Context, document []byte) (string, error)
}
