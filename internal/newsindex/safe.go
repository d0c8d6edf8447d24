package newsindex

import "sync"

// Safe wraps an Index with a sync.RWMutex: writers take the exclusive
// lock, readers take the shared lock. Index itself is single-threaded;
// Safe is the outer wrapper used wherever the Index is reached from more
// than one goroutine, such as the HTTP API and the Kafka ingest
// consumer.
type Safe struct {
	mu  sync.RWMutex
	idx *Index
}

// NewSafe wraps a freshly created Index with numBuckets, per New.
func NewSafe(numBuckets int) *Safe {
	return &Safe{idx: New(numBuckets)}
}

func (s *Safe) LoadStopWords(iter StopWordIterator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.LoadStopWords(iter)
}

func (s *Safe) IsStopWord(word string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.IsStopWord(word)
}

func (s *Safe) RegisterArticle(url, title string) (int, RejectionReason, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx.RegisterArticle(url, title)
}

func (s *Safe) GetArticleTitle(id int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.GetArticleTitle(id)
}

func (s *Safe) GetArticleURL(id int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.GetArticleURL(id)
}

func (s *Safe) ArticleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.ArticleCount()
}

func (s *Safe) AddToken(id int, token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx.AddToken(id, token)
}

func (s *Safe) QueryTopN(term string, n int) []QueryResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.idx.QueryTopN(term, n)
}
