package newsindex

// Posting records that a given article contains a term some number of
// times. At most one Posting per ArticleID exists within a term's list.
type Posting struct {
	ArticleID int
	Count     int
}

// termEntry is the normalized term plus its postings in first-occurrence
// (insertion) order. Postings are never re-sorted on write; ranking
// happens only at query time.
type termEntry struct {
	word     string
	postings []Posting
}

// bumpOrAppend increments the existing posting for articleID, or appends
// a new one with count 1 if none exists yet. The search is linear: the
// common case is one article contributing many tokens for the same term
// in quick succession, and real per-term postings lists in a news corpus
// stay short, so a hash index per term would not pay for itself.
func (e *termEntry) bumpOrAppend(articleID int) {
	for i := range e.postings {
		if e.postings[i].ArticleID == articleID {
			e.postings[i].Count++
			return
		}
	}
	e.postings = append(e.postings, Posting{ArticleID: articleID, Count: 1})
}
