package urlstrategy

import (
	"context"
	"fmt"

	"github.com/tendant/simple-site/pkg/site/scale"
)

// CDNStrategy points images and assets at a CDN and keeps pages on the site
type CDNStrategy struct {
	CDNBaseURL  string // e.g., "https://cdn.example.com"
	SiteBaseURL string // e.g., "https://www.example.com" or ""
}

// NewCDNStrategy creates a new CDN URL strategy
func NewCDNStrategy(cdnBaseURL, siteBaseURL string) *CDNStrategy {
	return &CDNStrategy{
		CDNBaseURL:  trimBase(cdnBaseURL),
		SiteBaseURL: trimBase(siteBaseURL),
	}
}

// ImageURL creates a CDN URL for the rendition
func (s *CDNStrategy) ImageURL(ctx context.Context, image ImageRef, sc scale.Scale) (string, error) {
	if s.CDNBaseURL == "" {
		return "", fmt.Errorf("CDN base URL not configured")
	}
	return fmt.Sprintf("%s/image/%s/%s/%s", s.CDNBaseURL, image.ContentID, sc.Path(), imageSegment(image)), nil
}

// PageURL keeps pages on the site
func (s *CDNStrategy) PageURL(ctx context.Context, path string) (string, error) {
	return pagePath(s.SiteBaseURL, path), nil
}

// AssetURL creates a CDN URL for the asset
func (s *CDNStrategy) AssetURL(ctx context.Context, path string) (string, error) {
	if s.CDNBaseURL == "" {
		return "", fmt.Errorf("CDN base URL not configured")
	}
	return fmt.Sprintf("%s/assets/%s", s.CDNBaseURL, escapeSegments(path)), nil
}
