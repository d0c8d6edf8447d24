package newsindex

import "sort"

// QueryResult is one ranked row of a QueryTopN answer. Results carry
// only ids and counts, no strings, so they are freely copyable.
type QueryResult struct {
	ArticleID int
	Count     int
}

// queryTopN looks up the normalized term, copies its postings into a
// scratch slice, sorts by descending count with ascending article id as
// tie-break, and returns the first n rows (or fewer if the term has
// fewer postings than n).
//
// An empty term, a nonpositive n, or a term with no postings (including
// every stop word, since stop words never get a term entry) all produce
// an empty result rather than an error — the query layer never exposes
// internal failure kinds.
func queryTopN(d *dictionary, term string, n int) []QueryResult {
	if term == "" || n <= 0 {
		return nil
	}
	entry, ok := d.get(normalize(term))
	if !ok || len(entry.postings) == 0 {
		return nil
	}

	scratch := make([]QueryResult, len(entry.postings))
	for i, p := range entry.postings {
		scratch[i] = QueryResult{ArticleID: p.ArticleID, Count: p.Count}
	}

	sort.Slice(scratch, func(i, j int) bool {
		a, b := scratch[i], scratch[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.ArticleID < b.ArticleID
	})

	if n < len(scratch) {
		scratch = scratch[:n]
	}
	return scratch
}
