package ecdsaverify

// SearchStrategy defines the interface for recovery search strategies.
// Implement this interface to create custom search strategies.
type SearchStrategy interface {
	// Search tries every (candidate, parity) pair and returns the first one,
	// in candidate-then-parity order, whose recovered address equals expected.
	// It returns nil when no trial matches.
	Search(sig *Signature, candidates []HashCandidate, expected Address) *MatchResult

	// Name returns a human-readable name for this strategy.
	Name() string
}

// SearchConfig configures a search strategy.
type SearchConfig struct {
	// NumWorkers controls parallelization (0 = auto-detect)
	NumWorkers int

	// RequireLowS rejects signatures with s > N/2 instead of recovering from them
	RequireLowS bool
}

// DefaultSearchConfig returns a sensible default configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		NumWorkers:  0, // Auto-detect
		RequireLowS: false,
	}
}

// FindMatch runs the sequential search with the default configuration.
//
// Args:
//   - sig: Parsed signature
//   - candidates: Ordered candidate hashes; earlier candidates win
//   - expected: Address the recovered key must derive to
//
// Returns:
//   - The first matching trial, or nil when the candidates are exhausted
func FindMatch(sig *Signature, candidates []HashCandidate, expected Address) *MatchResult {
	return NewSequentialSearch().Search(sig, candidates, expected)
}
