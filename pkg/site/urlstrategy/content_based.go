package urlstrategy

import (
	"context"
	"fmt"

	"github.com/tendant/simple-site/pkg/site/scale"
)

// ContentBasedStrategy generates URLs served by the site itself
type ContentBasedStrategy struct {
	BaseURL string // e.g., "https://www.example.com" or "" for host-relative URLs
}

// NewContentBasedStrategy creates a new content-based URL strategy
func NewContentBasedStrategy(baseURL string) *ContentBasedStrategy {
	return &ContentBasedStrategy{
		BaseURL: trimBase(baseURL),
	}
}

// ImageURL routes image renditions through the site's image endpoint
func (s *ContentBasedStrategy) ImageURL(ctx context.Context, image ImageRef, sc scale.Scale) (string, error) {
	return fmt.Sprintf("%s/_/image/%s/%s/%s", s.BaseURL, image.ContentID, sc.Path(), imageSegment(image)), nil
}

// PageURL maps the content path onto the site
func (s *ContentBasedStrategy) PageURL(ctx context.Context, path string) (string, error) {
	return pagePath(s.BaseURL, path), nil
}

// AssetURL routes assets through the site's asset endpoint
func (s *ContentBasedStrategy) AssetURL(ctx context.Context, path string) (string, error) {
	return fmt.Sprintf("%s/_/asset/%s", s.BaseURL, escapeSegments(path)), nil
}
