// Package sitetest provides fakes of the host services for controller tests.
package sitetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/tendant/simple-site/pkg/site"
)

// Portal is a site.Portal returning predictable URLs and recording calls.
type Portal struct {
	mu sync.Mutex

	ImageCalls []site.ImageURLParams
	PageCalls  []site.PageURLParams
	AssetCalls []site.AssetURLParams
	HTMLCalls  []site.ProcessHTMLParams

	// Err, when set, is returned by every call.
	Err error
}

var _ site.Portal = (*Portal)(nil)

func (p *Portal) ImageURL(ctx context.Context, params site.ImageURLParams) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ImageCalls = append(p.ImageCalls, params)
	if p.Err != nil {
		return "", p.Err
	}
	return fmt.Sprintf("/image/%s/%s", params.ID, params.Scale), nil
}

func (p *Portal) PageURL(ctx context.Context, params site.PageURLParams) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.PageCalls = append(p.PageCalls, params)
	if p.Err != nil {
		return "", p.Err
	}
	if params.ID != "" {
		return "/page/" + params.ID, nil
	}
	return params.Path, nil
}

func (p *Portal) AssetURL(ctx context.Context, params site.AssetURLParams) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.AssetCalls = append(p.AssetCalls, params)
	if p.Err != nil {
		return "", p.Err
	}
	return "/_/asset/" + params.Path, nil
}

func (p *Portal) ProcessHTML(ctx context.Context, params site.ProcessHTMLParams) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.HTMLCalls = append(p.HTMLCalls, params)
	if p.Err != nil {
		return "", p.Err
	}
	return "<div>" + params.Value + "</div>", nil
}

// Renderer is a site.Renderer that records the last view and model.
type Renderer struct {
	mu    sync.Mutex
	View  string
	Model any
	Calls int

	Err error
}

var _ site.Renderer = (*Renderer)(nil)

func (r *Renderer) Render(view string, model any) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.View = view
	r.Model = model
	r.Calls++
	if r.Err != nil {
		return "", &site.RenderError{View: view, Err: r.Err}
	}
	return "rendered:" + view, nil
}
