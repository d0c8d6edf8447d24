package newsindex

import "testing"

func TestDictionaryAddTokenBumpsExistingPosting(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	d.addToken(sw, 0, "Cat")
	d.addToken(sw, 0, "cat")
	d.addToken(sw, 0, "Dog")

	entry, ok := d.get("cat")
	if !ok {
		t.Fatal("expected term entry for 'cat'")
	}
	if len(entry.postings) != 1 || entry.postings[0].Count != 2 {
		t.Errorf("postings = %+v, want one posting with count 2", entry.postings)
	}

	dogEntry, ok := d.get("dog")
	if !ok || len(dogEntry.postings) != 1 || dogEntry.postings[0].Count != 1 {
		t.Errorf("dog postings = %+v, want one posting with count 1", dogEntry)
	}
}

func TestDictionaryAddTokenSkipsStopWords(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	sw.words["the"] = struct{}{}

	d.addToken(sw, 0, "The")
	if _, ok := d.get("the"); ok {
		t.Error("stop word must never create a term entry")
	}
}

func TestDictionaryAddTokenIgnoresEmpty(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	d.addToken(sw, 0, "")
	if len(d.terms) != 0 {
		t.Errorf("empty token created %d term entries, want 0", len(d.terms))
	}
}

func TestDictionaryPostingsPreserveInsertionOrder(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	d.addToken(sw, 2, "x")
	d.addToken(sw, 0, "x")
	d.addToken(sw, 1, "x")

	entry, _ := d.get("x")
	got := []int{entry.postings[0].ArticleID, entry.postings[1].ArticleID, entry.postings[2].ArticleID}
	want := []int{2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("postings order = %v, want %v", got, want)
			break
		}
	}
}

func TestDictionaryUniqueArticleIDPerTerm(t *testing.T) {
	d := newDictionary()
	sw := newStopWordSet()
	for i := 0; i < 5; i++ {
		d.addToken(sw, 3, "repeat")
	}
	entry, _ := d.get("repeat")
	if len(entry.postings) != 1 {
		t.Errorf("expected a single posting for repeated article id, got %d", len(entry.postings))
	}
	if entry.postings[0].Count != 5 {
		t.Errorf("count = %d, want 5", entry.postings[0].Count)
	}
}
