// Package portal implements site.Portal: image, page and asset URL
// generation plus rich text processing.
package portal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/scale"
	"github.com/tendant/simple-site/pkg/site/urlstrategy"
)

// DefaultHTMLImageScale is the rendition used for images embedded in rich text.
const DefaultHTMLImageScale = "width(768)"

// Service implements site.Portal
type Service struct {
	contents          site.ContentService
	strategy          urlstrategy.URLStrategy
	policy            *bluemonday.Policy
	defaultImageScale string
}

// Option configures a Service
type Option func(*Service)

// WithPolicy replaces the HTML sanitization policy.
func WithPolicy(policy *bluemonday.Policy) Option {
	return func(s *Service) {
		s.policy = policy
	}
}

// WithHTMLImageScale sets the rendition used for images in rich text.
func WithHTMLImageScale(expr string) Option {
	return func(s *Service) {
		s.defaultImageScale = expr
	}
}

// New creates a portal service
func New(contents site.ContentService, strategy urlstrategy.URLStrategy, opts ...Option) *Service {
	s := &Service{
		contents:          contents,
		strategy:          strategy,
		policy:            bluemonday.UGCPolicy(),
		defaultImageScale: DefaultHTMLImageScale,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImageURL links to a rendition of the image content identified by params.ID.
func (s *Service) ImageURL(ctx context.Context, params site.ImageURLParams) (string, error) {
	if params.ID == "" {
		return "", fmt.Errorf("image url: %w", site.ErrInvalidKey)
	}
	sc, err := scale.Parse(params.Scale)
	if err != nil {
		return "", err
	}

	content, err := s.contents.Get(ctx, params.ID)
	if err != nil {
		return "", err
	}
	if !content.IsImage() {
		return "", &site.ContentError{Key: params.ID, Op: "image url", Err: site.ErrNotAnImage}
	}

	return s.strategy.ImageURL(ctx, urlstrategy.ImageRef{
		ContentID: content.ID,
		Name:      content.Attachment.Name,
		ObjectKey: content.Attachment.ObjectKey,
	}, sc)
}

// PageURL links to the page of a content, selected by id (or path when no id is given).
func (s *Service) PageURL(ctx context.Context, params site.PageURLParams) (string, error) {
	path := params.Path
	if params.ID != "" {
		content, err := s.contents.Get(ctx, params.ID)
		if err != nil {
			return "", err
		}
		path = content.Path
	}
	if path == "" {
		return "", fmt.Errorf("page url: %w", site.ErrInvalidKey)
	}

	u, err := s.strategy.PageURL(ctx, site.CleanPath(path))
	if err != nil {
		return "", err
	}
	if len(params.Params) > 0 {
		q := url.Values{}
		for k, v := range params.Params {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}
	return u, nil
}

// AssetURL links to a static asset.
func (s *Service) AssetURL(ctx context.Context, params site.AssetURLParams) (string, error) {
	if strings.TrimSpace(params.Path) == "" {
		return "", errors.New("asset url: path is required")
	}
	return s.strategy.AssetURL(ctx, params.Path)
}

var linkPattern = regexp.MustCompile(`(href|src)="(content|image)://([^"?#]+)(\?[^"#]*)?[^"]*"`)

// referenceScale returns the scale query parameter of an image:// reference,
// or fallback when it is absent or invalid.
func referenceScale(rawQuery, fallback string) string {
	if rawQuery == "" {
		return fallback
	}
	values, err := url.ParseQuery(strings.ReplaceAll(strings.TrimPrefix(rawQuery, "?"), "&amp;", "&"))
	if err != nil {
		return fallback
	}
	expr := values.Get("scale")
	if expr == "" {
		return fallback
	}
	if _, err := scale.Parse(expr); err != nil {
		slog.Warn("Ignoring invalid image scale in HTML", "scale", expr, "error", err)
		return fallback
	}
	return expr
}

// ProcessHTML rewrites content:// and image:// references into site URLs
// and sanitizes the result. An image reference may carry its own rendition
// as "image://id?scale=block(300,200)". References that cannot be resolved
// become "#".
func (s *Service) ProcessHTML(ctx context.Context, params site.ProcessHTMLParams) (string, error) {
	if params.Value == "" {
		return "", nil
	}

	imageScale := params.ImageScale
	if imageScale == "" {
		imageScale = s.defaultImageScale
	}

	var firstErr error
	rewritten := linkPattern.ReplaceAllStringFunc(params.Value, func(match string) string {
		m := linkPattern.FindStringSubmatch(match)
		attr, kind, key, query := m[1], m[2], m[3], m[4]

		var (
			target string
			err    error
		)
		switch kind {
		case "content":
			target, err = s.PageURL(ctx, site.PageURLParams{ID: key})
		case "image":
			target, err = s.ImageURL(ctx, site.ImageURLParams{ID: key, Scale: referenceScale(query, imageScale)})
		}
		if err != nil {
			if errors.Is(err, site.ErrContentNotFound) || errors.Is(err, site.ErrInvalidKey) || errors.Is(err, site.ErrNotAnImage) {
				slog.Warn("Unresolved reference in HTML", "kind", kind, "key", key, "error", err)
				return attr + `="#"`
			}
			if firstErr == nil {
				firstErr = err
			}
			return attr + `="#"`
		}
		return fmt.Sprintf(`%s="%s"`, attr, target)
	})
	if firstErr != nil {
		return "", firstErr
	}

	return s.policy.Sanitize(rewritten), nil
}
