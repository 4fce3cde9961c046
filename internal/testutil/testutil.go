package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"crannies/internal/book"
)

// SampleBooks is a small built-in set for tests that need a catalog.
func SampleBooks() []book.Book {
	return []book.Book{
		{Title: "Dune", Author: "Frank Herbert", Genre: "Classic", Year: 1965, BestSeller: true},
		{Title: "Emma", Author: "Jane Austen", Genre: "Romance", Year: 1815, Trending: true},
		{Title: "It", Author: "Stephen King", Genre: "Horror", Year: 1986, BestSeller: true, Trending: true},
	}
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body any) *http.Request {
	var r *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestFromClient creates a request tagged with a view's client id.
func NewRequestFromClient(method, path string, body any, clientID string) *http.Request {
	r := NewRequest(method, path, body)
	if clientID != "" {
		r.Header.Set("X-Client-Id", clientID)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

// Data returns the envelope's data object, or nil.
func (r RecordResponse) Data() map[string]any {
	data, _ := r.Body["data"].(map[string]any)
	return data
}

// ErrorCode returns the envelope's error code, or "".
func (r RecordResponse) ErrorCode() string {
	e, _ := r.Body["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]any
	if len(bodyBytes) > 0 {
		_ = json.Unmarshal(bodyBytes, &bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
