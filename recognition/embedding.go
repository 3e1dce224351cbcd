package recognition

// EmbeddingSize is the dimension every face embedding must have.
// The extractor produces 128-float vectors; anything else is corrupt.
const EmbeddingSize = 128

// Embedding is a fixed-length face feature vector. Immutable once produced.
type Embedding []float64

// Valid reports whether the embedding has the expected dimension.
func (e Embedding) Valid() bool {
	return len(e) == EmbeddingSize
}
