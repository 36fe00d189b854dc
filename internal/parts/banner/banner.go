// Package banner renders a single banner part from its component config.
package banner

import (
	"context"
	"log/slog"

	"github.com/tendant/simple-site/internal/views"
	"github.com/tendant/simple-site/pkg/site"
)

// Model is the display model of the banner part.
type Model struct {
	Image string
	Text  string
	URL   string
	Color string
}

// ModelFromConfig reads the banner fields from component config.
func ModelFromConfig(config site.Data) Model {
	return Model{
		Image: config.String("bannerImage"),
		Text:  config.String("bannerText"),
		URL:   config.String("bannerUrl"),
		Color: config.String("bannerBackgroundCol"),
	}
}

// Controller renders the banner part
type Controller struct {
	renderer site.Renderer
}

// NewController creates a banner part controller
func NewController(renderer site.Renderer) *Controller {
	return &Controller{renderer: renderer}
}

func (c *Controller) Get(ctx context.Context, req *site.Request) (*site.Response, error) {
	var config site.Data
	if req.Component != nil {
		config = req.Component.Config
	}
	slog.Debug("Rendering banner", "path", req.Path)

	body, err := c.renderer.Render(views.Banner, ModelFromConfig(config))
	if err != nil {
		return nil, err
	}
	return site.NewHTMLResponse(body), nil
}
