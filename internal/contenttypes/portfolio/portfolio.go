// Package portfolio maps portfolio content into its display model and
// renders the portfolio page.
package portfolio

import (
	"context"
	"fmt"

	"github.com/tendant/simple-site/internal/views"
	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/scale"
)

// Image renditions.
var (
	ThumbnailScale = scale.MustParse("block(270,203)")
	FullScale      = scale.MustParse("block(1024,768)")
)

// Model is the display model of a portfolio content.
type Model struct {
	Title     string `json:"title"`
	Intro     string `json:"intro"`
	Credit    string `json:"credit"`
	URL       string `json:"url"`
	Image     string `json:"image"`
	ImageFull string `json:"image_full"`
}

// ModelFromContent builds the display model of a portfolio content.
// A missing photo credit or image maps to "". Portal errors are returned as-is.
func ModelFromContent(ctx context.Context, portal site.Portal, content *site.Content) (*Model, error) {
	data := content.Data

	intro, err := portal.ProcessHTML(ctx, site.ProcessHTMLParams{Value: data.String("portfolioIntro")})
	if err != nil {
		return nil, err
	}

	var image, imageFull string
	if imageID := data.String("portfolioImage"); imageID != "" {
		image, err = portal.ImageURL(ctx, site.ImageURLParams{ID: imageID, Scale: ThumbnailScale.String()})
		if err != nil {
			return nil, err
		}
		imageFull, err = portal.ImageURL(ctx, site.ImageURLParams{ID: imageID, Scale: FullScale.String()})
		if err != nil {
			return nil, err
		}
	}

	credit := ""
	if data.Has("photoCredit") {
		credit = data.String("photoCredit")
	}

	return &Model{
		Title:     content.DisplayName,
		Intro:     intro,
		Credit:    credit,
		URL:       data.String("portfolioUrl"),
		Image:     image,
		ImageFull: imageFull,
	}, nil
}

// Controller renders the page of a portfolio content.
type Controller struct {
	portal   site.Portal
	renderer site.Renderer
}

// NewController creates a portfolio page controller
func NewController(portal site.Portal, renderer site.Renderer) *Controller {
	return &Controller{portal: portal, renderer: renderer}
}

func (c *Controller) Get(ctx context.Context, req *site.Request) (*site.Response, error) {
	if req.Content == nil || req.Content.Type != site.ContentTypePortfolio {
		return nil, fmt.Errorf("portfolio page: %w", site.ErrContentNotFound)
	}

	model, err := ModelFromContent(ctx, c.portal, req.Content)
	if err != nil {
		return nil, err
	}

	body, err := c.renderer.Render(views.Portfolio, model)
	if err != nil {
		return nil, err
	}
	return site.NewHTMLResponse(body), nil
}
