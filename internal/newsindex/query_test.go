package newsindex

import (
	"reflect"
	"testing"
)

func TestQueryTopNEmptyTermOrNonpositiveN(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	d.addToken(sw, 0, "cat")

	if got := queryTopN(d, "", 5); got != nil {
		t.Errorf("empty term: got %v, want nil", got)
	}
	if got := queryTopN(d, "cat", 0); got != nil {
		t.Errorf("n=0: got %v, want nil", got)
	}
	if got := queryTopN(d, "cat", -1); got != nil {
		t.Errorf("n<0: got %v, want nil", got)
	}
}

func TestQueryTopNUnknownTerm(t *testing.T) {
	d := newDictionary()
	if got := queryTopN(d, "nosuchterm", 5); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestQueryTopNRankingAndTieBreak(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	d.addToken(sw, 0, "x")
	for i := 0; i < 3; i++ {
		d.addToken(sw, 1, "x")
		d.addToken(sw, 2, "x")
	}

	got := queryTopN(d, "X", 10)
	want := []QueryResult{{1, 3}, {2, 3}, {0, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestQueryTopNTruncation(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	counts := []int{5, 4, 3, 2, 1}
	for i, c := range counts {
		for j := 0; j < c; j++ {
			d.addToken(sw, 10+i, "q")
		}
	}

	got := queryTopN(d, "q", 3)
	want := []QueryResult{{10, 5}, {11, 4}, {12, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
