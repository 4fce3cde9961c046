package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crannies/internal/config"
	"crannies/internal/events"
	"crannies/internal/store"
	"crannies/internal/testutil"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.HTTP.RateLimitRPS = 1000
	cfg.HTTP.RateLimitBurst = 1000
	return cfg
}

func newTestRouter(t *testing.T, kv store.KV) (http.Handler, *events.Bus) {
	t.Helper()
	bus := events.NewBus(nil)
	h, cleanup := newRouter(testConfig(), kv, bus, nil)
	t.Cleanup(func() {
		cleanup()
		bus.Close()
	})
	return h, bus
}

func serveRequest(h http.Handler, r *http.Request) testutil.RecordResponse {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return testutil.RecordHTTPResponse(w)
}

func TestV1Routing(t *testing.T) {
	h, _ := newTestRouter(t, store.NewMemoryKV())

	t.Run("health", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, serveRequest(h, testutil.NewRequest(http.MethodGet, "/healthz", nil)).Code)
		assert.Equal(t, http.StatusOK, serveRequest(h, testutil.NewRequest(http.MethodGet, "/readyz", nil)).Code)
	})

	t.Run("catalog lists built-ins", func(t *testing.T) {
		res := serveRequest(h, testutil.NewRequest(http.MethodGet, "/v1/books", nil))
		require.Equal(t, http.StatusOK, res.Code)
		assert.Len(t, res.Data()["cards"], 9)
		assert.NotEmpty(t, res.Header.Get("X-Request-Id"))
	})

	t.Run("v1 prefix required", func(t *testing.T) {
		res := serveRequest(h, testutil.NewRequest(http.MethodGet, "/books", nil))
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		res := serveRequest(h, testutil.NewRequest(http.MethodPatch, "/v1/books", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, res.Code)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.ErrorCode())
	})

	t.Run("built-in books are read-only", func(t *testing.T) {
		res := serveRequest(h, testutil.NewRequest(http.MethodDelete, "/v1/books/0", nil))
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Equal(t, "BUILT_IN_BOOK", res.ErrorCode())
	})

	t.Run("add edit delete", func(t *testing.T) {
		body := map[string]any{"title": "Dune", "author": "Frank Herbert", "genre": "Classic", "year": 1965}
		res := serveRequest(h, testutil.NewRequest(http.MethodPost, "/v1/books", body))
		require.Equal(t, http.StatusCreated, res.Code)
		assert.EqualValues(t, 9, res.Data()["index"])

		body["title"] = "Dune Messiah"
		res = serveRequest(h, testutil.NewRequest(http.MethodPut, "/v1/books/9", body))
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "Dune Messiah", res.Data()["title"])

		res = serveRequest(h, testutil.NewRequest(http.MethodDelete, "/v1/books/9", nil))
		require.Equal(t, http.StatusOK, res.Code)

		res = serveRequest(h, testutil.NewRequest(http.MethodGet, "/v1/books/9", nil))
		assert.Equal(t, http.StatusNotFound, res.Code)
	})

	t.Run("search redirect", func(t *testing.T) {
		res := serveRequest(h, testutil.NewRequest(http.MethodGet, "/search?q=+dune+", nil))
		assert.Equal(t, http.StatusSeeOther, res.Code)
		assert.Equal(t, "/v1/books?q=dune", res.Header.Get("Location"))
	})

	t.Run("auth form", func(t *testing.T) {
		res := serveRequest(h, testutil.NewRequest(http.MethodGet, "/v1/auth/form?mode=login", nil))
		require.Equal(t, http.StatusOK, res.Code)
		assert.Equal(t, "Login", res.Data()["header"])
	})
}

func TestCollectionToggle_NotifiesOtherViews(t *testing.T) {
	h, bus := newTestRouter(t, store.NewMemoryKV())

	self := bus.Subscribe("view-a")
	other := bus.Subscribe("view-b")

	res := serveRequest(h, testutil.NewRequestFromClient(http.MethodPost, "/v1/collection/toggle",
		map[string]string{"title": "1984"}, "view-a"))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, true, res.Data()["in_collection"])

	select {
	case c := <-other.C:
		assert.Equal(t, store.KeyCollection, c.Key)
		assert.Equal(t, 1, c.Count)
		assert.Equal(t, "view-a", c.Origin)
	case <-time.After(time.Second):
		t.Fatal("other view was not notified")
	}
	select {
	case c := <-self.C:
		t.Fatalf("originating view received its own change: %+v", c)
	default:
	}

	res = serveRequest(h, testutil.NewRequest(http.MethodGet, "/v1/collection/count", nil))
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Data()["count"])
}

func TestReadyz_StoreDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	kv := store.NewMockKV(ctrl)
	kv.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused"))

	h, _ := newTestRouter(t, kv)
	res := serveRequest(h, testutil.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, res.Code)
}
