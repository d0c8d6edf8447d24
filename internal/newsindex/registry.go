package newsindex

import "net/url"

// Article is an immutable news document once accepted by RegisterArticle.
// Its ArticleID is its index of insertion, starting at 0.
type Article struct {
	URL    string
	Title  string
	Server string
}

// RejectionReason names why RegisterArticle refused an article.
type RejectionReason int

const (
	// NotRejected is the zero value, used when registration succeeded.
	NotRejected RejectionReason = iota
	DuplicateURL
	DuplicateTitleServer
)

func (r RejectionReason) String() string {
	switch r {
	case DuplicateURL:
		return "duplicate_url"
	case DuplicateTitleServer:
		return "duplicate_title_server"
	default:
		return "not_rejected"
	}
}

const serverTitleSep = '|'

// registry assigns dense article ids and enforces two dedup rules: no
// two accepted articles share a case-insensitive URL, and no two share
// a case-insensitive (server, title) pair.
type registry struct {
	articles        []Article
	seenURLs        map[string]struct{}
	seenTitleServer map[string]struct{}
}

func newRegistry() *registry {
	return &registry{
		seenURLs:        make(map[string]struct{}),
		seenTitleServer: make(map[string]struct{}),
	}
}

// register assigns a new dense id to (rawURL, title), or rejects the
// pair under the dedup rules above. On success it returns the new
// article's id and NotRejected. On rejection it returns (-1, reason) and
// leaves the registry state unchanged.
func (r *registry) register(rawURL, title string) (int, RejectionReason, error) {
	if rawURL == "" {
		return -1, NotRejected, ErrInvalidInput
	}

	keyURL := normalize(rawURL)
	if _, dup := r.seenURLs[keyURL]; dup {
		return -1, DuplicateURL, nil
	}

	server := extractServer(rawURL)
	keyST := serverTitleKey(server, title)
	if _, dup := r.seenTitleServer[keyST]; dup {
		return -1, DuplicateTitleServer, nil
	}

	r.seenURLs[keyURL] = struct{}{}
	r.seenTitleServer[keyST] = struct{}{}
	r.articles = append(r.articles, Article{URL: rawURL, Title: title, Server: server})
	return len(r.articles) - 1, NotRejected, nil
}

func (r *registry) count() int {
	return len(r.articles)
}

func (r *registry) inRange(id int) bool {
	return id >= 0 && id < len(r.articles)
}

func (r *registry) title(id int) (string, error) {
	if !r.inRange(id) {
		return "", ErrNotFound
	}
	return r.articles[id].Title, nil
}

func (r *registry) url(id int) (string, error) {
	if !r.inRange(id) {
		return "", ErrNotFound
	}
	return r.articles[id].URL, nil
}

// extractServer derives the host component of rawURL. An unparseable
// URL yields an empty server rather than a rejection; a malformed URL is
// not a distinct rejection reason.
func extractServer(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// serverTitleKey builds the dedup key normalize(server) + '|' +
// normalize(title).
func serverTitleKey(server, title string) string {
	buf := make([]byte, 0, len(server)+len(title)+1)
	buf = append(buf, normalize(server)...)
	buf = append(buf, serverTitleSep)
	buf = append(buf, normalize(title)...)
	return string(buf)
}
