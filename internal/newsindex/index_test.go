package newsindex

import (
	"errors"
	"reflect"
	"testing"
)

func TestEmptyIndexQueryReturnsEmpty(t *testing.T) {
	idx := New(100)
	if got := idx.QueryTopN("anything", 5); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestSingleArticleSimpleTerms(t *testing.T) {
	idx := New(0) // nonpositive -> default bucket count
	id, reason, err := idx.RegisterArticle("http://a/1", "Hi")
	if err != nil || reason != NotRejected || id != 0 {
		t.Fatalf("RegisterArticle = %d, %v, %v", id, reason, err)
	}
	idx.AddToken(0, "Cat")
	idx.AddToken(0, "cat")
	idx.AddToken(0, "Dog")

	if got := idx.QueryTopN("CAT", 10); !reflect.DeepEqual(got, []QueryResult{{0, 2}}) {
		t.Errorf("CAT query = %v", got)
	}
	if got := idx.QueryTopN("dog", 10); !reflect.DeepEqual(got, []QueryResult{{0, 1}}) {
		t.Errorf("dog query = %v", got)
	}
}

func TestRankingAndTieBreakEndToEnd(t *testing.T) {
	idx := New(0)
	idx.RegisterArticle("http://a/1", "A")
	idx.RegisterArticle("http://a/2", "B")
	idx.RegisterArticle("http://a/3", "C")

	idx.AddToken(0, "x")
	for i := 0; i < 3; i++ {
		idx.AddToken(1, "x")
		idx.AddToken(2, "x")
	}

	got := idx.QueryTopN("x", 10)
	want := []QueryResult{{1, 3}, {2, 3}, {0, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestStopWordFilteringEndToEnd(t *testing.T) {
	idx := New(0)
	idx.LoadStopWords(&sliceIterator{words: []string{"the", "and"}, failAt: -1})

	id, _, _ := idx.RegisterArticle("http://a/1", "T")
	idx.AddToken(id, "The")
	idx.AddToken(id, "News")
	idx.AddToken(id, "and")

	if got := idx.QueryTopN("the", 5); got != nil {
		t.Errorf("stop word query = %v, want nil", got)
	}
	if got := idx.QueryTopN("news", 5); !reflect.DeepEqual(got, []QueryResult{{0, 1}}) {
		t.Errorf("news query = %v", got)
	}
}

func TestURLDedupEndToEnd(t *testing.T) {
	idx := New(0)
	id0, reason, _ := idx.RegisterArticle("http://a/1", "T1")
	if id0 != 0 || reason != NotRejected {
		t.Fatalf("first register: id=%d reason=%v", id0, reason)
	}
	_, reason, _ = idx.RegisterArticle("HTTP://A/1", "T2")
	if reason != DuplicateURL {
		t.Errorf("reason = %v, want DuplicateURL", reason)
	}
	id1, reason, _ := idx.RegisterArticle("http://a/2", "other")
	if id1 != 1 || reason != NotRejected {
		t.Errorf("third register: id=%d reason=%v", id1, reason)
	}
}

func TestTitleServerDedupEndToEnd(t *testing.T) {
	idx := New(0)
	idx.RegisterArticle("http://a/1", "Breaking")
	_, reason, _ := idx.RegisterArticle("http://a/2", "Breaking")
	if reason != DuplicateTitleServer {
		t.Errorf("reason = %v, want DuplicateTitleServer", reason)
	}
	id, reason, _ := idx.RegisterArticle("http://b/2", "Breaking")
	if id != 1 || reason != NotRejected {
		t.Errorf("different server: id=%d reason=%v", id, reason)
	}
}

func TestTopNTruncationEndToEnd(t *testing.T) {
	idx := New(0)
	counts := []int{5, 4, 3, 2, 1}
	for i, c := range counts {
		idx.RegisterArticle("http://a/"+string(rune('0'+i)), "t"+string(rune('0'+i)))
		for j := 0; j < c; j++ {
			idx.AddToken(i, "q")
		}
	}
	got := idx.QueryTopN("q", 3)
	want := []QueryResult{{0, 5}, {1, 4}, {2, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddTokenOutOfRangeIsNoOp(t *testing.T) {
	idx := New(0)
	idx.AddToken(99, "token") // must not panic, must not create state
	if idx.QueryTopN("token", 5) != nil {
		t.Error("out-of-range AddToken should not create a term entry")
	}
}

func TestGetArticleLookupsEndToEnd(t *testing.T) {
	idx := New(0)
	idx.RegisterArticle("http://a/1", "Hello")
	title, err := idx.GetArticleTitle(0)
	if err != nil || title != "Hello" {
		t.Errorf("GetArticleTitle = %q, %v", title, err)
	}
	url, err := idx.GetArticleURL(0)
	if err != nil || url != "http://a/1" {
		t.Errorf("GetArticleURL = %q, %v", url, err)
	}
	if _, err := idx.GetArticleTitle(7); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestQueryDeterminism(t *testing.T) {
	build := func() *Index {
		idx := New(0)
		idx.RegisterArticle("http://a/1", "A")
		idx.RegisterArticle("http://a/2", "B")
		idx.AddToken(0, "term")
		idx.AddToken(1, "term")
		idx.AddToken(1, "term")
		return idx
	}
	a, b := build(), build()
	if !reflect.DeepEqual(a.QueryTopN("term", 10), b.QueryTopN("term", 10)) {
		t.Error("two identical ingestion histories produced different query results")
	}
}
