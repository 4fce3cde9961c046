package upload

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent PNG.
var pngPixel, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func TestReadDataURL(t *testing.T) {
	ctx := context.Background()

	t.Run("png", func(t *testing.T) {
		got, err := ReadDataURL(ctx, bytes.NewReader(pngPixel), 0)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))

		payload := strings.TrimPrefix(got, "data:image/png;base64,")
		decoded, err := base64.StdEncoding.DecodeString(payload)
		require.NoError(t, err)
		assert.Equal(t, pngPixel, decoded)
	})

	t.Run("text drops charset", func(t *testing.T) {
		got, err := ReadDataURL(ctx, strings.NewReader("hello"), 0)
		require.NoError(t, err)
		assert.Equal(t, "data:text/plain;base64,aGVsbG8=", got)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ReadDataURL(ctx, strings.NewReader(""), 0)
		assert.ErrorIs(t, err, ErrNoFile)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := ReadDataURL(ctx, bytes.NewReader(make([]byte, 11)), 10)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("canceled", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := ReadDataURL(canceled, bytes.NewReader(pngPixel), 0)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("read error is wrapped", func(t *testing.T) {
		boom := errors.New("disk")
		_, err := ReadDataURL(ctx, failingReader{boom}, 0)
		assert.ErrorIs(t, err, boom)
	})
}

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Dune"))
	if field != "" {
		fw, err := mw.CreateFormFile(field, "cover.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	r := httptest.NewRequest(http.MethodPost, "/v1/books", &body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(1<<20))
	return r
}

func TestFromRequest(t *testing.T) {
	got, err := FromRequest(multipartRequest(t, "image_file", pngPixel), "image_file", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"))

	_, err = FromRequest(multipartRequest(t, "", nil), "image_file", 0)
	assert.ErrorIs(t, err, ErrNoFile)
}
