// Package upload reads a submitted image file into a data URL.
package upload

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes bounds an uploaded file.
const DefaultMaxBytes = 5 << 20

var (
	// ErrNoFile is returned when the form carries no file, or an empty one.
	ErrNoFile = errors.New("no file supplied")
	// ErrTooLarge is returned when the file exceeds the limit.
	ErrTooLarge = errors.New("file too large")
)

// ReadDataURL reads r completely and encodes it as
// "data:<sniffed type>;base64,<payload>". It stops early when ctx is done.
func ReadDataURL(ctx context.Context, r io.Reader, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(&ctxReader{ctx: ctx, r: r}, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return "", ErrNoFile
	}
	if int64(len(data)) > maxBytes {
		return "", ErrTooLarge
	}

	mediaType, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// FromRequest reads the multipart file field of r. The request must already
// be parsed with ParseMultipartForm.
func FromRequest(r *http.Request, field string, maxBytes int64) (string, error) {
	f, _, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", ErrNoFile
	}
	if err != nil {
		return "", fmt.Errorf("open form file: %w", err)
	}
	defer func(f multipart.File) { _ = f.Close() }(f)

	return ReadDataURL(r.Context(), f, maxBytes)
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
