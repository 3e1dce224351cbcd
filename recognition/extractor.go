package recognition

import (
	"context"
	"errors"
)

// Typed extraction failures. The pipeline maps these to error codes with
// a fixed table; nothing downstream inspects error text.
var (
	ErrNoFace             = errors.New("no face detected in sample")
	ErrMultipleFaces      = errors.New("more than one face detected in sample")
	ErrBadImage           = errors.New("sample image could not be decoded")
	ErrMalformedEmbedding = errors.New("embedding has wrong dimension")
)

// Extractor turns a base64 image sample into exactly one face embedding,
// or fails with one of the typed errors above. Implementations may block;
// callers wrap invocations with a deadline and must treat cancellation as
// best effort.
type Extractor interface {
	Extract(ctx context.Context, imageBase64 string) (Embedding, error)
}
