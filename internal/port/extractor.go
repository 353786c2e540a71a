package port

import (
	"context"
	"io"
)

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, name string, body io.Reader) (string, error)
}
