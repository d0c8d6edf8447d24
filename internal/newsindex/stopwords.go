package newsindex

import "fmt"

// stopWordSet is a deterministic O(1)-expected membership set for stop
// words: build once from an iterator of raw words, then test membership
// against the same normalization used for ingested tokens and query
// terms so the three domains are directly comparable.
type stopWordSet struct {
	words map[string]struct{}
}

func newStopWordSet() *stopWordSet {
	return &stopWordSet{words: make(map[string]struct{})}
}

// StopWordIterator yields stop-word candidates one at a time. Load stops
// at the first error, keeping whatever was already inserted, so a
// partial load still leaves a usable set.
type StopWordIterator interface {
	// Next returns the next candidate string, or ok=false when
	// exhausted. err is non-nil only on a genuine iteration failure,
	// distinct from ordinary exhaustion.
	Next() (word string, ok bool, err error)
}

// load consumes iter, inserting normalize(word) for each nonempty word.
// Repeated entries are idempotent. Returns ErrResourceError (wrapping the
// iterator's error) if iter fails; words accepted before the failure
// remain in the set.
func (s *stopWordSet) load(iter StopWordIterator) error {
	for {
		word, ok, err := iter.Next()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrResourceError, err)
		}
		if !ok {
			return nil
		}
		if word == "" {
			continue
		}
		s.words[normalize(word)] = struct{}{}
	}
}

func (s *stopWordSet) isStopWord(word string) bool {
	_, ok := s.words[normalize(word)]
	return ok
}
