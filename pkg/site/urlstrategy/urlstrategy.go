package urlstrategy

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/tendant/simple-site/pkg/site/scale"
)

// ImageRef identifies the binary an image URL points at.
type ImageRef struct {
	ContentID uuid.UUID
	Name      string // attachment file name, used as the last path segment
	ObjectKey string // blob store key of the original binary
}

// URLStrategy defines the interface for URL generation strategies
type URLStrategy interface {
	// ImageURL creates a URL for a rendition of an image
	ImageURL(ctx context.Context, image ImageRef, s scale.Scale) (string, error)

	// PageURL creates a URL for the page of the content at path
	PageURL(ctx context.Context, path string) (string, error)

	// AssetURL creates a URL for a static asset
	AssetURL(ctx context.Context, path string) (string, error)
}

func trimBase(base string) string {
	return strings.TrimSuffix(base, "/")
}

func escapeSegments(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

func pagePath(base, path string) string {
	escaped := escapeSegments(path)
	if escaped == "" {
		if base == "" {
			return "/"
		}
		return base + "/"
	}
	return base + "/" + escaped
}
