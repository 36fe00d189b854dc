package site

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
)

// ModeLive is the render mode of published pages.
const ModeLive = "live"

// Request is the per-invocation input of a controller.
type Request struct {
	Method    string
	Path      string
	Params    url.Values
	Mode      string
	Content   *Content
	Component *Component
	// RegionHTML holds the rendered markup of the current component's
	// regions, keyed by region name.
	RegionHTML map[string]template.HTML
}

// PageContributions are markup fragments injected into the page shell.
type PageContributions struct {
	HeadEnd []string `json:"head_end,omitempty"`
	BodyEnd []string `json:"body_end,omitempty"`
}

// Response is the output of a controller.
type Response struct {
	Status            int               `json:"status"`
	ContentType       string            `json:"content_type,omitempty"`
	Body              string            `json:"body,omitempty"`
	PageContributions PageContributions `json:"page_contributions"`
}

// HasBody reports whether the response carries markup.
func (r *Response) HasBody() bool {
	return r != nil && r.Body != ""
}

// NewHTMLResponse wraps rendered markup in a 200 response.
func NewHTMLResponse(body string) *Response {
	return &Response{
		Status:      http.StatusOK,
		ContentType: "text/html; charset=utf-8",
		Body:        body,
	}
}

// NoBody is the response of a controller that renders nothing.
func NoBody() *Response {
	return &Response{Status: http.StatusNoContent}
}

// Controller handles a GET request for a part, layout, page or content type.
type Controller interface {
	Get(ctx context.Context, req *Request) (*Response, error)
}

// ControllerFunc adapts a function to the Controller interface.
type ControllerFunc func(ctx context.Context, req *Request) (*Response, error)

// Get calls f(ctx, req).
func (f ControllerFunc) Get(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
