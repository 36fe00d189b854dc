// Package bannerfrontpage renders the frontpage carousel of banners.
package bannerfrontpage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tendant/simple-site/internal/views"
	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/scale"
)

// ImageScale is the rendition of banner images.
var ImageScale = scale.MustParse("width(600)")

// Carousel assets, relative to the asset root.
const (
	SlickJS  = "js/slick.min.js"
	SlickCSS = "css/slick.css"
)

// Banner is one slide of the carousel. Image and LinkTarget are empty when
// the entry does not reference an image or a link.
type Banner struct {
	Image           string
	Title           string
	LinkTarget      string
	BackgroundColor string
}

// Model is the display model of the part.
type Model struct {
	Banners []Banner
}

// Controller renders the banner-frontpage part
type Controller struct {
	contents site.ContentService
	portal   site.Portal
	renderer site.Renderer
}

// NewController creates a banner-frontpage part controller
func NewController(contents site.ContentService, portal site.Portal, renderer site.Renderer) *Controller {
	return &Controller{contents: contents, portal: portal, renderer: renderer}
}

func (c *Controller) Get(ctx context.Context, req *site.Request) (*site.Response, error) {
	var config site.Data
	if req.Component != nil {
		config = req.Component.Config
	}

	banners, err := c.Banners(ctx, config)
	if err != nil {
		return nil, err
	}

	slickJS, err := c.portal.AssetURL(ctx, site.AssetURLParams{Path: SlickJS})
	if err != nil {
		return nil, err
	}
	slickCSS, err := c.portal.AssetURL(ctx, site.AssetURLParams{Path: SlickCSS})
	if err != nil {
		return nil, err
	}

	body, err := c.renderer.Render(views.BannerFrontpage, Model{Banners: banners})
	if err != nil {
		return nil, err
	}

	resp := site.NewHTMLResponse(body)
	resp.PageContributions = site.PageContributions{
		HeadEnd: []string{"<link rel='stylesheet' href='" + slickCSS + "'></link>"},
		BodyEnd: []string{"<script src='" + slickJS + "'></script>"},
	}
	return resp, nil
}

// Banners resolves the "banner" entries of config in order. A single entry
// is treated as a one-element list.
func (c *Controller) Banners(ctx context.Context, config site.Data) ([]Banner, error) {
	entries := site.ForceArray(config.Get("banner"))
	if len(entries) == 0 {
		return nil, nil
	}

	banners := make([]Banner, 0, len(entries))
	for _, raw := range entries {
		entry := site.AsData(raw)

		b := Banner{
			Title:           entry.String("title1"),
			BackgroundColor: entry.String("backgroundColor"),
		}

		if entry.Has("image") {
			image, err := c.imageURL(ctx, entry.String("image"))
			if err != nil {
				return nil, err
			}
			b.Image = image
		}

		if entry.Has("linkTo") {
			link, err := c.linkURL(ctx, entry.String("linkTo"))
			if err != nil {
				return nil, err
			}
			b.LinkTarget = link
		}

		banners = append(banners, b)
	}
	return banners, nil
}

// imageURL returns "" when the referenced image content cannot be resolved.
func (c *Controller) imageURL(ctx context.Context, key string) (string, error) {
	image, err := c.contents.Get(ctx, key)
	if unresolved(err) {
		slog.Warn("Banner image not found", "key", key, "error", err)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.portal.ImageURL(ctx, site.ImageURLParams{ID: image.ID.String(), Scale: ImageScale.String()})
}

// linkURL returns "" when the link target cannot be resolved.
func (c *Controller) linkURL(ctx context.Context, key string) (string, error) {
	link, err := c.portal.PageURL(ctx, site.PageURLParams{ID: key})
	if unresolved(err) {
		slog.Warn("Banner link target not found", "key", key, "error", err)
		return "", nil
	}
	return link, err
}

func unresolved(err error) bool {
	return errors.Is(err, site.ErrContentNotFound) || errors.Is(err, site.ErrInvalidKey)
}
