// Package portfoliolist renders the portfolio items found in a folder.
package portfoliolist

import (
	"context"
	"fmt"

	"github.com/tendant/simple-site/internal/contenttypes/portfolio"
	"github.com/tendant/simple-site/internal/views"
	"github.com/tendant/simple-site/pkg/site"
)

// Model is the display model of the part.
type Model struct {
	Items []*portfolio.Model
}

// Controller renders the portfolio-list part
type Controller struct {
	contents site.ContentService
	portal   site.Portal
	renderer site.Renderer
}

// NewController creates a portfolio-list part controller
func NewController(contents site.ContentService, portal site.Portal, renderer site.Renderer) *Controller {
	return &Controller{contents: contents, portal: portal, renderer: renderer}
}

func (c *Controller) Get(ctx context.Context, req *site.Request) (*site.Response, error) {
	var config site.Data
	if req.Component != nil {
		config = req.Component.Config
	}

	var items []*portfolio.Model
	if config.Has("folder") {
		children, err := c.contents.Children(ctx, config.String("folder"))
		if err != nil {
			return nil, fmt.Errorf("portfolio list: %w", err)
		}
		for _, child := range children {
			if child.Type != site.ContentTypePortfolio {
				continue
			}
			item, err := portfolio.ModelFromContent(ctx, c.portal, child)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	}

	body, err := c.renderer.Render(views.PortfolioList, Model{Items: items})
	if err != nil {
		return nil, err
	}
	return site.NewHTMLResponse(body), nil
}
