package catalog

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"crannies/internal/book"
	"crannies/internal/filter"
	"crannies/internal/httpx"
	"crannies/internal/upload"
	"crannies/internal/validation"

	"go.uber.org/zap"
)

const imageFileField = "image_file"

type HTTPHandler struct {
	svc            *Service
	validator      *validation.Validator
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewHTTPHandler(svc *Service, v *validation.Validator, logger *zap.Logger, maxUploadBytes int64) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = upload.DefaultMaxBytes
	}
	return &HTTPHandler{svc: svc, validator: v, logger: logger, maxUploadBytes: maxUploadBytes}
}

// List handles GET /v1/books
// @Summary Browse the catalog
// @Param q query string false "Search text"
// @Param search_by query string false "all, title, author, best-sellers or trending"
// @Param genre query string false "Exact genre, All for every genre"
// @Param year query int false "Publication year"
// @Param trending query bool false "Only trending (true) or only not trending (false)"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	state, details := parseFilterState(r)
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid filter", details)
		return
	}

	page := h.svc.Browse(r.Context(), state)
	httpx.JSONSuccess(w, r, page, map[string]any{
		"total":    page.Total,
		"returned": len(page.Cards),
	})
}

func parseFilterState(r *http.Request) (filter.State, []httpx.ErrorDetail) {
	q := r.URL.Query()
	state := filter.State{
		SearchQuery: q.Get("q"),
		SearchBy:    filter.ParseSearchBy(q.Get("search_by")),
	}
	var details []httpx.ErrorDetail

	if g := strings.TrimSpace(q.Get("genre")); g != "" {
		state.SelectedGenre = &g
	}
	if y := strings.TrimSpace(q.Get("year")); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "year", Message: "year must be a whole number"})
		} else {
			state.SelectedYear = &year
		}
	}
	if tr := strings.TrimSpace(q.Get("trending")); tr != "" {
		trending, err := strconv.ParseBool(tr)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "trending", Message: "trending must be true or false"})
		} else {
			state.ShowOnlyTrending = &trending
		}
	}
	return state, details
}

// Get handles GET /v1/books/{index}
// @Summary One catalog card
// @Param index path int true "Catalog position"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{index} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.position(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Card(r.Context(), pos)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	b, _ := h.svc.Book(r.Context(), pos)
	httpx.JSONSuccess(w, r, view, map[string]any{"form": book.InputFrom(b)})
}

// Create handles POST /v1/books
// @Summary Add a custom book
// @Description JSON body, or multipart form with an optional image_file upload that replaces image.
// @Accept json,mpfd
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/books [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	b, ok := h.readBook(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Add(r.Context(), b)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONCreated(w, r, view)
}

// Update handles PUT /v1/books/{index}
// @Summary Edit a custom book
// @Param index path int true "Catalog position"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/books/{index} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.position(w, r)
	if !ok {
		return
	}
	b, ok := h.readBook(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Update(r.Context(), pos, b)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, view, nil)
}

// Delete handles DELETE /v1/books/{index}
// @Summary Delete a custom book
// @Param index path int true "Catalog position"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 403 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /v1/books/{index} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pos, ok := h.position(w, r)
	if !ok {
		return
	}
	removed, err := h.svc.Delete(r.Context(), pos)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"deleted": removed}, nil)
}

// Genres handles GET /v1/genres
func (h *HTTPHandler) Genres(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]any{
		"genres":      h.svc.Genres(r.Context()),
		"form_genres": append(append([]string{}, book.GenreList...), book.GenreOther),
	}, nil)
}

// CollectionBooks handles GET /v1/collection/books
// @Summary Collected books
// @Param q query string false "Search over title, author and genre"
// @Param genre query string false "Exact genre, All for every genre"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/collection/books [get]
func (h *HTTPHandler) CollectionBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := h.svc.CollectionBooks(r.Context(), q.Get("q"), strings.TrimSpace(q.Get("genre")))
	httpx.JSONSuccess(w, r, page, map[string]any{"empty": page.Collected == 0})
}

// RecommendedSites handles GET /v1/recommended-sites
func (h *HTTPHandler) RecommendedSites(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, RecommendedSites(), nil)
}

func (h *HTTPHandler) position(w http.ResponseWriter, r *http.Request) (int, bool) {
	pos, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "index must be a whole number", nil)
		return 0, false
	}
	return pos, true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, book.ErrBuiltInBook):
		httpx.JSONError(w, r, http.StatusForbidden, "BUILT_IN_BOOK", "Built-in books cannot be edited or deleted", nil)
	case errors.Is(err, book.ErrPositionOutOfRange):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	default:
		h.logger.Error("catalog request failed", zap.String("path", r.URL.Path), zap.Error(err))
		httpx.InternalError(w, r)
	}
}

// readBook decodes and validates the add/edit form. It writes the error
// response itself and reports false when the request cannot proceed.
func (h *HTTPHandler) readBook(w http.ResponseWriter, r *http.Request) (book.Book, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var (
		in      book.Input
		details []httpx.ErrorDetail
	)
	multipartForm := mediaType == "multipart/form-data"
	if multipartForm {
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			h.badBody(w, r, err)
			return book.Book{}, false
		}
		in, details = inputFromForm(r)
	} else if err := httpx.DecodeJSON(r, &in); err != nil {
		h.badBody(w, r, err)
		return book.Book{}, false
	}

	in.Normalize()
	for _, fe := range h.validator.Struct(in) {
		details = append(details, httpx.ErrorDetail{Field: fe.Field, Message: fe.Message})
	}
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", details)
		return book.Book{}, false
	}

	b := in.Book()
	if multipartForm {
		image, err := upload.FromRequest(r, imageFileField, h.maxUploadBytes)
		switch {
		case errors.Is(err, upload.ErrNoFile):
		case err != nil:
			h.logger.Warn("image upload failed", zap.Error(err))
			httpx.JSONError(w, r, http.StatusBadRequest, "IMAGE_READ_FAILED", "The image file could not be read", nil)
			return book.Book{}, false
		default:
			b.Image = image
		}
	}
	return b, true
}

func (h *HTTPHandler) badBody(w http.ResponseWriter, r *http.Request, err error) {
	if httpx.IsBodyTooLarge(err) {
		httpx.JSONError(w, r, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large", nil)
		return
	}
	httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
}

func inputFromForm(r *http.Request) (book.Input, []httpx.ErrorDetail) {
	in := book.Input{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Genre:       r.FormValue("genre"),
		CustomGenre: r.FormValue("custom_genre"),
		BestSeller:  formBool(r.FormValue("best_seller")),
		Trending:    formBool(r.FormValue("trending")),
		Description: r.FormValue("description"),
		Image:       r.FormValue("image"),
		Link:        r.FormValue("link"),
	}
	var details []httpx.ErrorDetail
	if y := strings.TrimSpace(r.FormValue("year")); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "year", Message: "Year must be a whole number"})
		} else {
			in.Year = &year
		}
	}
	return in, details
}

// formBool accepts checkbox values ("on") as well as strconv booleans.
func formBool(v string) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "on" || v == "yes" {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
