// Package views embeds the site's templates and static assets.
package views

import (
	"embed"
	"io/fs"

	"github.com/tendant/simple-site/pkg/site/view"
)

// View names.
const (
	Page            = "page.html"
	Error           = "error.html"
	Banner          = "banner.html"
	BannerFrontpage = "banner-frontpage.html"
	LayoutOneCol    = "layout-1-col.html"
	Portfolio       = "portfolio.html"
	PortfolioList   = "portfolio-list.html"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed static
var static embed.FS

// NewRenderer parses the embedded templates.
func NewRenderer() (*view.Renderer, error) {
	return view.New(templates, "templates/*.html")
}

// Static returns the asset tree served under the asset URL root.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
