package recognition

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MatchResult is the outcome of comparing a probe embedding against a
// stored one. Confidence can go negative when the distance exceeds 1;
// that is inherited behavior and callers must tolerate it.
type MatchResult struct {
	Distance   float64
	Confidence float64
	IsMatch    bool
}

// Matcher compares face embeddings using Euclidean distance.
// Threshold and MinConfidence are policy knobs supplied by config,
// never hardcoded at the call site.
type Matcher struct {
	Threshold     float64
	MinConfidence float64
}

func NewMatcher(threshold, minConfidence float64) *Matcher {
	return &Matcher{Threshold: threshold, MinConfidence: minConfidence}
}

// Match compares stored and probe. Both vectors must be exactly
// EmbeddingSize long; a wrong length is ErrMalformedEmbedding, never a
// silently wrong distance. Deterministic, no side effects.
func (m *Matcher) Match(stored, probe Embedding) (MatchResult, error) {
	if !stored.Valid() || !probe.Valid() {
		return MatchResult{}, ErrMalformedEmbedding
	}

	dist := floats.Distance(stored, probe, 2)
	confidence := math.Round((1.0-dist)*100*100) / 100

	return MatchResult{
		Distance:   dist,
		Confidence: confidence,
		IsMatch:    dist <= m.Threshold && confidence >= m.MinConfidence,
	}, nil
}
