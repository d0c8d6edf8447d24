package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tidewater-news/newsdex/internal/newsindex"
)

func newTestHandler() *Handler {
	idx := newsindex.NewSafe(1021)
	return NewHandler(idx, nil, nil, nil)
}

func doRequest(h http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	var r *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		r = httptest.NewRequest(method, target, bytes.NewReader(data))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func TestCreateArticleSuccess(t *testing.T) {
	h := newTestHandler()
	w := doRequest(h.CreateArticle, http.MethodPost, "/v1/articles", createArticleRequest{
		URL: "https://example.com/a", Title: "Article A",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var resp createArticleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ArticleID != 0 {
		t.Fatalf("ArticleID = %d, want 0", resp.ArticleID)
	}
}

func TestCreateArticleDuplicateURL(t *testing.T) {
	h := newTestHandler()
	doRequest(h.CreateArticle, http.MethodPost, "/v1/articles", createArticleRequest{
		URL: "https://example.com/a", Title: "Article A",
	})
	w := doRequest(h.CreateArticle, http.MethodPost, "/v1/articles", createArticleRequest{
		URL: "https://example.com/a", Title: "Different Title",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusConflict)
	}
}

func TestCreateArticleInvalidBody(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest(http.MethodPost, "/v1/articles", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	h.CreateArticle(w, r)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestAddTokensAndQuery(t *testing.T) {
	h := newTestHandler()
	doRequest(h.CreateArticle, http.MethodPost, "/v1/articles", createArticleRequest{
		URL: "https://example.com/a", Title: "Article A",
	})

	r := httptest.NewRequest(http.MethodPost, "/v1/articles/0/tokens", bytes.NewReader(mustJSON(addTokensRequest{
		Tokens: []string{"market", "market", "stocks"},
	})))
	r.SetPathValue("id", "0")
	w := httptest.NewRecorder()
	h.AddTokens(w, r)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}

	qr := httptest.NewRequest(http.MethodGet, "/v1/query?term=market&n=5", nil)
	qw := httptest.NewRecorder()
	h.Query(qw, qr)
	if qw.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", qw.Code, http.StatusOK)
	}
	var resp queryResponse
	if err := json.Unmarshal(qw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].Count != 2 {
		t.Fatalf("results = %+v, want one result with count 2", resp.Results)
	}
}

func TestQueryNoMatchesReturnsEmptyNotError(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest(http.MethodGet, "/v1/query?term=nothing&n=5", nil)
	w := httptest.NewRecorder()
	h.Query(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp queryResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Fatalf("results = %+v, want empty", resp.Results)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	h := newTestHandler()
	r := httptest.NewRequest(http.MethodGet, "/v1/articles/99", nil)
	r.SetPathValue("id", "99")
	w := httptest.NewRecorder()
	h.GetArticle(w, r)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestGetArticleFound(t *testing.T) {
	h := newTestHandler()
	doRequest(h.CreateArticle, http.MethodPost, "/v1/articles", createArticleRequest{
		URL: "https://example.com/a", Title: "Article A",
	})
	r := httptest.NewRequest(http.MethodGet, "/v1/articles/0", nil)
	r.SetPathValue("id", "0")
	w := httptest.NewRecorder()
	h.GetArticle(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp articleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Title != "Article A" {
		t.Fatalf("Title = %q, want %q", resp.Title, "Article A")
	}
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
