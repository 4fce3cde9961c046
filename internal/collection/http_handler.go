package collection

import (
	"net/http"
	"strings"

	"crannies/internal/httpx"

	"go.uber.org/zap"
)

type HTTPHandler struct {
	tracker *Tracker
	logger  *zap.Logger
}

func NewHTTPHandler(tracker *Tracker, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{tracker: tracker, logger: logger}
}

type toggleReq struct {
	Title string `json:"title"`
}

type toggleResp struct {
	Title        string `json:"title"`
	InCollection bool   `json:"in_collection"`
	Count        int    `json:"count"`
}

// List handles GET /v1/collection.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	set := h.tracker.Load(r.Context())
	httpx.JSONSuccess(w, r, map[string]any{
		"titles": set.Titles(),
		"count":  set.Len(),
	}, nil)
}

// Count handles GET /v1/collection/count.
func (h *HTTPHandler) Count(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]int{"count": h.tracker.Count(r.Context())}, nil)
}

// Toggle handles POST /v1/collection/toggle.
func (h *HTTPHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Validation failed", []httpx.ErrorDetail{
			{Field: "title", Message: "title is required"},
		})
		return
	}

	res, err := h.tracker.Toggle(r.Context(), title)
	if err != nil {
		h.logger.Error("toggle collection", zap.String("title", title), zap.Error(err))
		httpx.InternalError(w, r)
		return
	}

	httpx.JSONSuccess(w, r, toggleResp{
		Title:        title,
		InCollection: res.InCollection,
		Count:        res.Set.Len(),
	}, nil)
}
