package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/tendant/simple-site/pkg/site"
)

// ErrorResponse is the JSON body of a failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorPage is the model of the error view
type ErrorPage struct {
	Status  int
	Title   string
	Message string
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, site.ErrContentNotFound),
		errors.Is(err, site.ErrInvalidKey),
		errors.Is(err, site.ErrBlobNotFound),
		errors.Is(err, site.ErrNotAnImage),
		errors.Is(err, site.ErrControllerNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, site.ErrAccessDenied):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, site.ErrInvalidScale):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (h *SiteHandler) writeErrorPage(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := statusFor(err)
	page := ErrorPage{Status: status, Title: http.StatusText(status)}
	if status == http.StatusInternalServerError {
		slog.Error("Failed to serve page", "path", r.URL.Path, "error", err)
	} else {
		slog.Debug("Page not served", "path", r.URL.Path, "status", status, "error", err)
	}

	body, renderErr := h.renderer.Render(ErrorView, page)
	if renderErr != nil {
		slog.Error("Failed to render error page", "error", renderErr)
		http.Error(w, page.Title, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	message := http.StatusText(status)
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "error", err)
	} else {
		message = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: code, Message: message})
}
