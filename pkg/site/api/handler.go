// Package api exposes the site over HTTP.
package api

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/engine"
	"github.com/tendant/simple-site/pkg/site/initializer"
	"github.com/tendant/simple-site/pkg/site/scale"
)

// ErrorView is the view rendering error pages.
const ErrorView = "error.html"

// Initializer seeds demo content
type Initializer interface {
	Initialize(ctx context.Context) (*initializer.Result, error)
}

// SiteHandler serves rendered pages, images, assets and content JSON
type SiteHandler struct {
	contents    site.ContentService
	engine      *engine.Engine
	blobs       site.BlobStore
	assets      fs.FS
	renderer    site.Renderer
	initializer Initializer

	homePath  string
	rateLimit int
	timeout   time.Duration
}

// Option configures a SiteHandler
type Option func(*SiteHandler)

// WithInitializer enables the admin initialize endpoint
func WithInitializer(i Initializer) Option {
	return func(h *SiteHandler) {
		h.initializer = i
	}
}

// WithHomePath redirects "/" to path
func WithHomePath(path string) Option {
	return func(h *SiteHandler) {
		h.homePath = path
	}
}

// WithRateLimit limits requests per client IP per minute. Zero disables the limit.
func WithRateLimit(requestsPerMinute int) Option {
	return func(h *SiteHandler) {
		h.rateLimit = requestsPerMinute
	}
}

// WithTimeout bounds the time spent serving a request
func WithTimeout(d time.Duration) Option {
	return func(h *SiteHandler) {
		h.timeout = d
	}
}

// NewSiteHandler creates a new site handler
func NewSiteHandler(contents site.ContentService, e *engine.Engine, blobs site.BlobStore, assets fs.FS, renderer site.Renderer, opts ...Option) *SiteHandler {
	h := &SiteHandler{
		contents: contents,
		engine:   e,
		blobs:    blobs,
		assets:   assets,
		renderer: renderer,
		timeout:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter wraps the site routes with the request middleware stack and a
// readiness probe. adminMiddlewares guard the admin routes.
func NewRouter(h *SiteHandler, adminMiddlewares ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz/ready", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})
	r.Route("/_/admin", func(r chi.Router) {
		r.Use(adminMiddlewares...)
		r.Mount("/", h.AdminRoutes())
	})
	r.Mount("/", h.Routes())
	return r
}

// Routes returns the public routes of the site
func (h *SiteHandler) Routes() chi.Router {
	r := chi.NewRouter()

	if h.timeout > 0 {
		r.Use(middleware.Timeout(h.timeout))
	}
	if h.rateLimit > 0 {
		r.Use(httprate.LimitByIP(h.rateLimit, time.Minute))
	}
	r.Use(cacheControl)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.PlainText(w, r, http.StatusText(http.StatusOK))
	})

	r.Get("/_/image/{id}/{scale}/{name}", h.GetImage)
	r.Handle("/_/asset/*", http.StripPrefix("/_/asset", http.FileServer(http.FS(h.assets))))
	r.Get("/_/content/*", h.GetContent)
	r.Get("/*", h.GetPage)

	return r
}

// AdminRoutes returns the administrative routes. Callers are expected to
// guard them with authentication middleware.
func (h *SiteHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/initialize", h.Initialize)
	return r
}

func cacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/_/asset/") || strings.HasPrefix(r.URL.Path, "/_/image/") {
			w.Header().Set("Cache-Control", "public, max-age=86400")
		} else {
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		}
		next.ServeHTTP(w, r)
	})
}

// GetPage renders the content page at the request path
func (h *SiteHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	path := site.CleanPath(r.URL.Path)
	if path == "/" && h.homePath != "" {
		http.Redirect(w, r, h.homePath, http.StatusFound)
		return
	}

	content, err := h.contents.Get(r.Context(), path)
	if err != nil {
		h.writeErrorPage(w, r, err)
		return
	}

	resp, err := h.engine.Render(r.Context(), &site.Request{
		Method:  r.Method,
		Path:    path,
		Params:  r.URL.Query(),
		Mode:    site.ModeLive,
		Content: content,
	})
	if err != nil {
		h.writeErrorPage(w, r, err)
		return
	}

	if !resp.HasBody() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, resp.Body)
}

// GetImage streams the binary of an image content. Scaling is left to
// whatever sits in front of the site, the scale segment is only validated.
func (h *SiteHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := scale.Parse(chi.URLParam(r, "scale")); err != nil {
		http.Error(w, "Invalid scale", http.StatusBadRequest)
		return
	}

	content, err := h.readableContent(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeErrorPage(w, r, err)
		return
	}
	if !content.IsImage() || content.Attachment.ObjectKey == "" {
		h.writeErrorPage(w, r, &site.ContentError{Key: content.ID.String(), Op: "image", Err: site.ErrNotAnImage})
		return
	}

	reader, err := h.blobs.Download(ctx, content.Attachment.ObjectKey)
	if err != nil {
		h.writeErrorPage(w, r, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", content.Attachment.MimeType)
	if _, err := io.Copy(w, reader); err != nil {
		slog.Error("Failed to stream image", "id", content.ID, "error", err)
	}
}

// GetContent returns the content at the request path as JSON
func (h *SiteHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	content, err := h.readableContent(r.Context(), "/"+chi.URLParam(r, "*"))
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	render.JSON(w, r, content)
}

// Initialize runs the demo content initializer
func (h *SiteHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	if h.initializer == nil {
		render.Status(r, http.StatusNotImplemented)
		render.JSON(w, r, ErrorResponse{Error: "not_implemented", Message: "initializer is not configured"})
		return
	}

	result, err := h.initializer.Initialize(r.Context())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	render.JSON(w, r, result)
}

func (h *SiteHandler) readableContent(ctx context.Context, key string) (*site.Content, error) {
	content, err := h.contents.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	ok, err := h.engine.CanRead(ctx, content)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &site.ContentError{Key: key, Op: "read", Err: site.ErrAccessDenied}
	}
	return content, nil
}
