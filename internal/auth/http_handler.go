package auth

import (
	"net/http"

	"crannies/internal/httpx"
	"crannies/internal/validation"
)

// CatalogPath is where a search from the auth page lands.
const CatalogPath = "/v1/books"

type HTTPHandler struct {
	validator *validation.Validator
}

func NewHTTPHandler(v *validation.Validator) *HTTPHandler {
	return &HTTPHandler{validator: v}
}

type formResp struct {
	Mode   Mode   `json:"mode"`
	Header string `json:"header"`
}

type resultResp struct {
	Valid    bool   `json:"valid"`
	Message  string `json:"message"`
	NextMode Mode   `json:"next_mode,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Form handles GET /v1/auth/form
// @Summary Which auth form to show
// @Param mode query string false "login or signup (default)"
// @Success 200 {object} httpx.SuccessResponse
// @Router /v1/auth/form [get]
func (h *HTTPHandler) Form(w http.ResponseWriter, r *http.Request) {
	mode := ParseMode(r.URL.Query().Get("mode"))
	httpx.JSONSuccess(w, r, formResp{Mode: mode, Header: mode.Header()}, nil)
}

// ValidateSignup handles POST /v1/auth/signup/validate
// @Summary Validate the sign-up form
// @Success 200 {object} httpx.SuccessResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/auth/signup/validate [post]
func (h *HTTPHandler) ValidateSignup(w http.ResponseWriter, r *http.Request) {
	var form SignupForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	form.Normalize()

	if errs := h.validator.Struct(form); len(errs) > 0 {
		h.invalid(w, r, errs)
		return
	}
	httpx.JSONSuccess(w, r, resultResp{Valid: true, Message: MsgSignupSuccess, NextMode: ModeLogin}, nil)
}

// ValidateLogin handles POST /v1/auth/login/validate
// @Summary Validate the login form
// @Success 200 {object} httpx.SuccessResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Router /v1/auth/login/validate [post]
func (h *HTTPHandler) ValidateLogin(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	form.Normalize()

	if errs := h.validator.Struct(form); len(errs) > 0 {
		h.invalid(w, r, errs)
		return
	}
	httpx.JSONSuccess(w, r, resultResp{Valid: true, Message: MsgLoginSuccess, Redirect: CatalogPath}, nil)
}

func (h *HTTPHandler) invalid(w http.ResponseWriter, r *http.Request, errs []validation.FieldError) {
	details := make([]httpx.ErrorDetail, 0, len(errs))
	for _, e := range errs {
		details = append(details, httpx.ErrorDetail{Field: e.Field, Message: e.Message})
	}
	httpx.JSONError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", MsgFixErrors, details)
}

// Search handles GET /search. A non-empty query redirects to the catalog with
// the search applied; an empty one stays put.
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	target := SearchRedirect(CatalogPath, r.URL.Query().Get("q"))
	if target == "" {
		httpx.JSONNoContent(w)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
