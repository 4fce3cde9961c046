package catalog

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crannies/internal/book"
	"crannies/internal/card"
	"crannies/internal/httpx"
	"crannies/internal/store"
	"crannies/internal/validation"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(kv store.KV, maxUpload int64) *HTTPHandler {
	svc, _ := newService(kv)
	return NewHTTPHandler(svc, validation.New(), nil, maxUpload)
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	require.True(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httpx.ErrorResponseBody {
	t.Helper()
	var env httpx.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	require.False(t, env.Success)
	return env.Error
}

func TestHTTPHandler_List(t *testing.T) {
	handler := newHandler(store.NewMemoryKV(), 0)

	t.Run("filters", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/v1/books?search_by=trending", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var page Page
		decodeData(t, w, &page)
		require.Len(t, page.Cards, 1)
		assert.Equal(t, "C", page.Cards[0].Title)
	})

	t.Run("query from search redirect", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/v1/books?q=bob", nil))

		var page Page
		decodeData(t, w, &page)
		require.Len(t, page.Cards, 1)
		assert.Equal(t, "B", page.Cards[0].Title)
	})

	t.Run("bad year", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.List(w, httptest.NewRequest(http.MethodGet, "/v1/books?year=soon&trending=maybe", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Len(t, decodeError(t, w).Details, 2)
	})
}

func TestHTTPHandler_CreateJSON(t *testing.T) {
	handler := newHandler(store.NewMemoryKV(), 0)

	t.Run("created", func(t *testing.T) {
		body := `{"title":"Z","author":"Zed","genre":"Other","custom_genre":"Sci-Fi","year":-50,"image":"https://example.com/z.jpg"}`
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(body)))

		require.Equal(t, http.StatusCreated, w.Code)
		var view card.View
		decodeData(t, w, &view)
		assert.Equal(t, 3, view.Index)
		assert.Equal(t, "Sci-Fi", view.Genre)
		assert.Equal(t, -50, view.Year)
		assert.True(t, view.Deletable)
	})

	t.Run("validation", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(`{"genre":"Other"}`)))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		fields := map[string]string{}
		for _, d := range decodeError(t, w).Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Title is required", fields["title"])
		assert.Equal(t, "Author is required", fields["author"])
		assert.Contains(t, fields, "custom_genre")
	})

	t.Run("future year", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"title":"T","author":"A","genre":"Classic","year":9999}`
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(body)))

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		details := decodeError(t, w).Details
		require.Len(t, details, 1)
		assert.Equal(t, "year", details[0].Field)
		assert.Equal(t, "Year cannot be in the future", details[0].Message)
	})

	t.Run("unknown field", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(`{"isbn":"1"}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

var pngPixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func multipartBook(t *testing.T, fields map[string]string, file []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile(imageFileField, "cover.png")
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/v1/books", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestHTTPHandler_CreateMultipart(t *testing.T) {
	fields := map[string]string{"title": "Z", "author": "Zed", "genre": "Horror", "year": "", "trending": "on"}

	t.Run("file becomes data url", func(t *testing.T) {
		handler := newHandler(store.NewMemoryKV(), 0)
		w := httptest.NewRecorder()
		handler.Create(w, multipartBook(t, fields, pngPixel))

		require.Equal(t, http.StatusCreated, w.Code)
		var view card.View
		decodeData(t, w, &view)
		assert.True(t, strings.HasPrefix(view.Image, "data:image/png;base64,"))
		assert.True(t, view.Trending)
		assert.Equal(t, 0, view.Year)
	})

	t.Run("no file keeps url", func(t *testing.T) {
		handler := newHandler(store.NewMemoryKV(), 0)
		withURL := map[string]string{"title": "Z", "author": "Zed", "genre": "Horror", "image": "https://example.com/z.jpg"}
		w := httptest.NewRecorder()
		handler.Create(w, multipartBook(t, withURL, nil))

		require.Equal(t, http.StatusCreated, w.Code)
		var view card.View
		decodeData(t, w, &view)
		assert.Equal(t, "https://example.com/z.jpg", view.Image)
	})

	t.Run("unreadable file rejects the submission", func(t *testing.T) {
		kv := store.NewMemoryKV()
		handler := newHandler(kv, 8)
		w := httptest.NewRecorder()
		handler.Create(w, multipartBook(t, fields, pngPixel))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "IMAGE_READ_FAILED", decodeError(t, w).Code)

		_, err := kv.Get(t.Context(), store.KeyCustomBooks)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("bad year", func(t *testing.T) {
		handler := newHandler(store.NewMemoryKV(), 0)
		w := httptest.NewRecorder()
		handler.Create(w, multipartBook(t, map[string]string{"title": "Z", "author": "Zed", "genre": "Horror", "year": "MCM"}, nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHTTPHandler_UpdateDelete(t *testing.T) {
	handler := newHandler(store.NewMemoryKV(), 0)

	w := httptest.NewRecorder()
	handler.Create(w, httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(`{"title":"Z","author":"Zed","genre":"Epic"}`)))
	require.Equal(t, http.StatusCreated, w.Code)

	cases := []struct {
		name   string
		method string
		index  string
		body   string
		status int
		code   string
	}{
		{"edit built-in", http.MethodPut, "0", `{"title":"X","author":"Y","genre":"Epic"}`, http.StatusForbidden, "BUILT_IN_BOOK"},
		{"delete built-in", http.MethodDelete, "1", "", http.StatusForbidden, "BUILT_IN_BOOK"},
		{"edit missing", http.MethodPut, "9", `{"title":"X","author":"Y","genre":"Epic"}`, http.StatusNotFound, "NOT_FOUND"},
		{"bad index", http.MethodDelete, "first", "", http.StatusBadRequest, "BAD_REQUEST"},
		{"edit custom", http.MethodPut, "3", `{"title":"Y","author":"Zed","genre":"Epic"}`, http.StatusOK, ""},
		{"delete custom", http.MethodDelete, "3", "", http.StatusOK, ""},
		{"delete again", http.MethodDelete, "3", "", http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(tc.method, "/v1/books/"+tc.index, strings.NewReader(tc.body))
			r.SetPathValue("index", tc.index)
			w := httptest.NewRecorder()
			if tc.method == http.MethodPut {
				handler.Update(w, r)
			} else {
				handler.Delete(w, r)
			}

			assert.Equal(t, tc.status, w.Code)
			if tc.code != "" {
				assert.Equal(t, tc.code, decodeError(t, w).Code)
			}
		})
	}
}

func TestHTTPHandler_Get(t *testing.T) {
	handler := newHandler(store.NewMemoryKV(), 0)

	r := httptest.NewRequest(http.MethodGet, "/v1/books/2", nil)
	r.SetPathValue("index", "2")
	w := httptest.NewRecorder()
	handler.Get(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var view card.View
	decodeData(t, w, &view)
	assert.Equal(t, "C", view.Title)
	assert.Equal(t, "C cover", view.ImageAlt)
	assert.Equal(t, []string{card.TagTrending}, view.Tags)
}

func TestHTTPHandler_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := store.NewMockKV(ctrl)
	kv.EXPECT().Get(gomock.Any(), store.KeyCustomBooks).Return(nil, store.ErrNotFound)
	kv.EXPECT().Set(gomock.Any(), store.KeyCustomBooks, gomock.Any()).Return(errors.New("disk full"))

	w := httptest.NewRecorder()
	newHandler(kv, 0).Create(w, httptest.NewRequest(http.MethodPost, "/v1/books", strings.NewReader(`{"title":"Z","author":"Zed","genre":"Epic"}`)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Code)
}

func TestHTTPHandler_GenresAndSites(t *testing.T) {
	handler := newHandler(store.NewMemoryKV(), 0)

	w := httptest.NewRecorder()
	handler.Genres(w, httptest.NewRequest(http.MethodGet, "/v1/genres", nil))
	var genres struct {
		Genres     []string `json:"genres"`
		FormGenres []string `json:"form_genres"`
	}
	decodeData(t, w, &genres)
	assert.Equal(t, book.GenreAll, genres.Genres[0])
	assert.Equal(t, book.GenreOther, genres.FormGenres[len(genres.FormGenres)-1])

	w = httptest.NewRecorder()
	handler.RecommendedSites(w, httptest.NewRequest(http.MethodGet, "/v1/recommended-sites", nil))
	var sites []Site
	decodeData(t, w, &sites)
	assert.Len(t, sites, 7)
}

func TestHTTPHandler_CollectionBooks(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(t.Context(), store.KeyCollection, []byte(`["B","C"]`)))
	handler := newHandler(kv, 0)

	w := httptest.NewRecorder()
	handler.CollectionBooks(w, httptest.NewRequest(http.MethodGet, "/v1/collection/books?genre=Horror", nil))

	var page Page
	decodeData(t, w, &page)
	require.Len(t, page.Cards, 1)
	assert.Equal(t, "C", page.Cards[0].Title)
	assert.Equal(t, 2, page.Collected)
}
