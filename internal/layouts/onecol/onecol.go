// Package onecol implements the one-column layout.
package onecol

import (
	"context"
	"html/template"
	"log/slog"

	"github.com/tendant/simple-site/internal/views"
	"github.com/tendant/simple-site/pkg/site"
)

// RegionName is the single region of the layout.
const RegionName = "left"

// Model is the display model of the layout.
type Model struct {
	Component  *site.Component
	LeftRegion *site.Region
	Left       template.HTML
}

// Options configures the layout controller
type Options struct {
	// Render enables rendering the layout view. When false the layout
	// logs its region and returns no body.
	Render bool
}

// Controller handles the one-column layout
type Controller struct {
	renderer site.Renderer
	opts     Options
}

// NewController creates a one-column layout controller
func NewController(renderer site.Renderer, opts Options) *Controller {
	return &Controller{renderer: renderer, opts: opts}
}

func (c *Controller) Get(ctx context.Context, req *site.Request) (*site.Response, error) {
	model := Model{
		Component:  req.Component,
		LeftRegion: req.Component.Region(RegionName),
		Left:       req.RegionHTML[RegionName],
	}

	components := 0
	if model.LeftRegion != nil {
		components = len(model.LeftRegion.Components)
	}
	slog.Info("Layout region", "layout", "layout-1-col", "region", RegionName, "components", components, "path", req.Path)

	if !c.opts.Render {
		return site.NoBody(), nil
	}

	body, err := c.renderer.Render(views.LayoutOneCol, model)
	if err != nil {
		return nil, err
	}
	return site.NewHTMLResponse(body), nil
}
