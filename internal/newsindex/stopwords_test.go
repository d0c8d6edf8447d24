package newsindex

import (
	"errors"
	"testing"
)

type sliceIterator struct {
	words   []string
	i       int
	failAt  int // -1 disables failure
	failErr error
}

func (s *sliceIterator) Next() (string, bool, error) {
	if s.failAt >= 0 && s.i == s.failAt {
		s.i++
		return "", false, s.failErr
	}
	if s.i >= len(s.words) {
		return "", false, nil
	}
	w := s.words[s.i]
	s.i++
	return w, true, nil
}

func TestStopWordSetLoadAndMembership(t *testing.T) {
	set := newStopWordSet()
	iter := &sliceIterator{words: []string{"The", "and", "", "AND"}, failAt: -1}
	if err := set.load(iter); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !set.isStopWord("the") || !set.isStopWord("THE") {
		t.Error("expected 'the' to be a stop word case-insensitively")
	}
	if !set.isStopWord("And") {
		t.Error("expected 'and' to be a stop word")
	}
	if set.isStopWord("news") {
		t.Error("'news' should not be a stop word")
	}
}

func TestStopWordSetPartialLoadOnFailure(t *testing.T) {
	set := newStopWordSet()
	failErr := errors.New("boom")
	iter := &sliceIterator{words: []string{"the", "and", "or"}, failAt: 2, failErr: failErr}
	err := set.load(iter)
	if !errors.Is(err, ErrResourceError) {
		t.Fatalf("load err = %v, want ErrResourceError", err)
	}
	if !set.isStopWord("the") || !set.isStopWord("and") {
		t.Error("words inserted before the failure should remain")
	}
	if set.isStopWord("or") {
		t.Error("word after the failure should not be present")
	}
}
