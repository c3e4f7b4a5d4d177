package vecstore

import "context"

// Embedder vectorizes text into a dense embedding. Implementations can
// wrap any provider; the service's OpenAI-compatible transport is one.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
