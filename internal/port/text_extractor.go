package port

import "context"

// TextExtractor converts a paginated document's bytes into plain text,
// page texts joined with a newline. Zero-length or zero-page input yields
// an empty string, not an error.
type TextExtractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}
