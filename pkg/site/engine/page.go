package engine

import (
	"context"
	"html/template"

	"github.com/tendant/simple-site/pkg/site"
)

// PageModel is the model of the page shell view.
type PageModel struct {
	Title   string
	Content *site.Content
	Regions map[string]template.HTML
}

// PageController renders the page shell around the page's regions.
type PageController struct {
	renderer site.Renderer
	view     string
}

// NewPageController creates a controller rendering view as the page shell.
func NewPageController(renderer site.Renderer, view string) *PageController {
	return &PageController{renderer: renderer, view: view}
}

func (c *PageController) Get(ctx context.Context, req *site.Request) (*site.Response, error) {
	model := PageModel{
		Content: req.Content,
		Regions: req.RegionHTML,
	}
	if req.Content != nil {
		model.Title = req.Content.DisplayName
	}

	body, err := c.renderer.Render(c.view, model)
	if err != nil {
		return nil, err
	}
	return site.NewHTMLResponse(body), nil
}

// ContentPage wraps the output of a content-type controller in the page
// shell so that page contributions have a document to land in.
func ContentPage(renderer site.Renderer, view string, inner site.Controller) site.Controller {
	return site.ControllerFunc(func(ctx context.Context, req *site.Request) (*site.Response, error) {
		resp, err := inner.Get(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return site.NoBody(), nil
		}

		model := PageModel{
			Content: req.Content,
			Regions: map[string]template.HTML{"main": template.HTML(resp.Body)},
		}
		if req.Content != nil {
			model.Title = req.Content.DisplayName
		}
		body, err := renderer.Render(view, model)
		if err != nil {
			return nil, err
		}

		out := site.NewHTMLResponse(body)
		out.PageContributions = resp.PageContributions
		return out, nil
	})
}
