package newsindex

// defaultNumBuckets is the fixed prime used when the caller's suggested
// bucket count is nonpositive. Go's map does its own bucket sizing, so
// the value is kept only for constructor compatibility and is otherwise
// unused.
const defaultNumBuckets = 10007

// Index is the facade owning the stop-word filter, the article registry,
// and the term dictionary (which in turn owns postings). It is
// ephemeral — nothing it holds outlives the process, and there is no
// operation that is valid after the Index is discarded.
//
// Index is not safe for concurrent use; see Safe for a wrapper that is.
type Index struct {
	numBuckets int
	stopWords  *stopWordSet
	registry   *registry
	dict       *dictionary
}

// New creates an Index. numBuckets is a suggested dictionary bucket
// count; nonpositive values fall back to defaultNumBuckets. The
// argument exists for constructor compatibility with a hash-set-backed
// design; this implementation's term map does not need manual bucket
// sizing.
func New(numBuckets int) *Index {
	if numBuckets <= 0 {
		numBuckets = defaultNumBuckets
	}
	return &Index{
		numBuckets: numBuckets,
		stopWords:  newStopWordSet(),
		registry:   newRegistry(),
		dict:       newDictionary(),
	}
}

// LoadStopWords inserts normalize(word) for every nonempty word produced
// by iter. See StopWordIterator for the failure/partial-load contract.
func (idx *Index) LoadStopWords(iter StopWordIterator) error {
	return idx.stopWords.load(iter)
}

// IsStopWord reports whether normalize(word) is a loaded stop word.
func (idx *Index) IsStopWord(word string) bool {
	return idx.stopWords.isStopWord(word)
}

// RegisterArticle assigns url/title a dense article id, or rejects the
// pair under the URL and (server, title) dedup rules. On success it
// returns (id, NotRejected, nil). On rejection it returns (-1, reason,
// nil) — a rejection is a normal business outcome, not an error. An
// empty url returns (-1, NotRejected, ErrInvalidInput).
func (idx *Index) RegisterArticle(url, title string) (int, RejectionReason, error) {
	return idx.registry.register(url, title)
}

// GetArticleTitle returns the stored title for id, or ErrNotFound if id
// is out of range. The returned string is borrowed — callers must not
// assume it outlives the Index being mutated further, though nothing in
// this API ever mutates a stored Article once registered.
func (idx *Index) GetArticleTitle(id int) (string, error) {
	return idx.registry.title(id)
}

// GetArticleURL returns the stored URL for id, or ErrNotFound if id is
// out of range.
func (idx *Index) GetArticleURL(id int) (string, error) {
	return idx.registry.url(id)
}

// ArticleCount returns the number of accepted articles.
func (idx *Index) ArticleCount() int {
	return idx.registry.count()
}

// AddToken records one occurrence of token in article id. It is a no-op
// if id is out of range, token is empty, or token normalizes to a
// loaded stop word — all three are silent no-ops, not errors.
func (idx *Index) AddToken(id int, token string) {
	if !idx.registry.inRange(id) {
		return
	}
	idx.dict.addToken(idx.stopWords, id, token)
}

// QueryTopN ranks term's postings by descending count with ascending
// article id as tie-break, and returns the first min(n, |postings|)
// rows. Returns nil for an empty term, a nonpositive n, or a term with
// no postings.
func (idx *Index) QueryTopN(term string, n int) []QueryResult {
	return queryTopN(idx.dict, term, n)
}
