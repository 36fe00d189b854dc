package site

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines persistence for content
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Content, error)
	GetByPath(ctx context.Context, path string) (*Content, error)
	// Children returns the direct children of the content at parentPath, ordered by path
	Children(ctx context.Context, parentPath string) ([]*Content, error)
	Exists(ctx context.Context, path string) (bool, error)
	Create(ctx context.Context, content *Content) error
	Update(ctx context.Context, content *Content) error
}

// BlobStore defines the interface for binary storage backends
type BlobStore interface {
	// Upload stores the binary under objectKey
	Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error

	// Download opens the binary stored under objectKey
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// GetPreviewURL returns a URL a browser can load the binary from
	GetPreviewURL(ctx context.Context, objectKey string) (string, error)

	// Exists reports whether objectKey is stored
	Exists(ctx context.Context, objectKey string) (bool, error)
}

// ContentService looks content up by key. A key is either a content path
// (starting with "/") or a content id.
type ContentService interface {
	Get(ctx context.Context, key string) (*Content, error)
	Children(ctx context.Context, key string) ([]*Content, error)
}

// ImageURLParams selects an image content and the rendition to link to.
type ImageURLParams struct {
	ID    string
	Scale string
}

// PageURLParams selects the content a page link points at. ID takes
// precedence over Path.
type PageURLParams struct {
	ID     string
	Path   string
	Params map[string]string
}

// AssetURLParams selects a static asset by path relative to the asset root.
type AssetURLParams struct {
	Path string
}

// ProcessHTMLParams holds rich text to process. ImageScale overrides the
// rendition used for embedded images.
type ProcessHTMLParams struct {
	Value      string
	ImageScale string
}

// Portal groups the URL and HTML services controllers call.
type Portal interface {
	ImageURL(ctx context.Context, params ImageURLParams) (string, error)
	PageURL(ctx context.Context, params PageURLParams) (string, error)
	AssetURL(ctx context.Context, params AssetURLParams) (string, error)
	ProcessHTML(ctx context.Context, params ProcessHTMLParams) (string, error)
}

// Renderer renders a named view with a model.
type Renderer interface {
	Render(view string, model any) (string, error)
}
