// Package app binds the site's pages, layouts, parts and content types to
// their controllers.
package app

import (
	"log/slog"

	"github.com/tendant/simple-site/internal/contenttypes/portfolio"
	"github.com/tendant/simple-site/internal/layouts/onecol"
	"github.com/tendant/simple-site/internal/parts/banner"
	"github.com/tendant/simple-site/internal/parts/bannerfrontpage"
	"github.com/tendant/simple-site/internal/parts/portfoliolist"
	"github.com/tendant/simple-site/internal/views"
	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/engine"
)

// Descriptors of the site's components.
const (
	PageDefault         = "default"
	LayoutOneCol        = "layout-1-col"
	PartBanner          = "banner"
	PartBannerFrontpage = "banner-frontpage"
	PartPortfolioList   = "portfolio-list"
)

// Options configures controller registration
type Options struct {
	// LayoutOneColRender enables the one-column layout view.
	LayoutOneColRender bool
}

// Register binds every controller of the site into registry.
func Register(registry *engine.Registry, contents site.ContentService, portal site.Portal, renderer site.Renderer, opts Options) {
	registry.RegisterComponent(site.ComponentTypePage, PageDefault, engine.NewPageController(renderer, views.Page))

	registry.RegisterComponent(site.ComponentTypeLayout, LayoutOneCol,
		onecol.NewController(renderer, onecol.Options{Render: opts.LayoutOneColRender}))

	registry.RegisterComponent(site.ComponentTypePart, PartBanner, banner.NewController(renderer))
	registry.RegisterComponent(site.ComponentTypePart, PartBannerFrontpage, bannerfrontpage.NewController(contents, portal, renderer))
	registry.RegisterComponent(site.ComponentTypePart, PartPortfolioList, portfoliolist.NewController(contents, portal, renderer))

	registry.RegisterContentType(site.ContentTypePortfolio,
		engine.ContentPage(renderer, views.Page, portfolio.NewController(portal, renderer)))

	slog.Info("Registered controllers", "components", registry.Keys())
}
