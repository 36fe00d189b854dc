package engine_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/engine"
	"github.com/tendant/simple-site/pkg/site/repo/memory"
)

type shellRenderer struct{}

func (shellRenderer) Render(view string, model any) (string, error) {
	page, ok := model.(engine.PageModel)
	if !ok {
		return "", fmt.Errorf("unexpected model %T", model)
	}
	return fmt.Sprintf("<html><head><title>%s</title></head><body>%s</body></html>", page.Title, page.Regions["main"]), nil
}

func staticPart(body string, contributions site.PageContributions) site.Controller {
	return site.ControllerFunc(func(ctx context.Context, req *site.Request) (*site.Response, error) {
		resp := site.NewHTMLResponse(body)
		resp.PageContributions = contributions
		return resp, nil
	})
}

func setupEngineTest(t *testing.T) (*engine.Engine, *engine.Registry, site.Repository) {
	t.Helper()
	repo := memory.New()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &site.Content{
		Path:        "/site",
		Name:        "site",
		DisplayName: "Site",
		Type:        site.ContentTypeSite,
		Permissions: site.AccessControlList{site.Allow(site.PrincipalEveryone, site.PermissionRead)},
	}))

	registry := engine.NewRegistry()
	registry.RegisterComponent(site.ComponentTypePage, "default", engine.NewPageController(shellRenderer{}, "page.html"))
	return engine.New(registry, site.NewContentService(repo)), registry, repo
}

func pageContent(path string, parts ...*site.Component) *site.Content {
	return &site.Content{
		Path:               path,
		Name:               path[strings.LastIndex(path, "/")+1:],
		DisplayName:        "Home",
		Type:               site.ContentTypeFolder,
		InheritPermissions: true,
		Page: &site.Component{
			Type:       site.ComponentTypePage,
			Descriptor: "default",
			Regions: map[string]*site.Region{
				"main": {Name: "main", Components: parts},
			},
		},
	}
}

func TestRender_PageTreeWithContributions(t *testing.T) {
	e, registry, _ := setupEngineTest(t)
	css := "<link rel='stylesheet' href='/slick.css'></link>"
	js := "<script src='/slick.js'></script>"
	registry.RegisterComponent(site.ComponentTypePart, "slider", staticPart("<div>slider</div>",
		site.PageContributions{HeadEnd: []string{css}, BodyEnd: []string{js}}))

	content := pageContent("/site/home",
		&site.Component{Type: site.ComponentTypePart, Descriptor: "slider"},
		&site.Component{Type: site.ComponentTypePart, Descriptor: "slider"},
	)

	resp, err := e.Render(context.Background(), &site.Request{Method: http.MethodGet, Content: content})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Contains(t, resp.Body, "<title>Home</title>")
	assert.Equal(t, 2, strings.Count(resp.Body, "<div>slider</div>"))
	assert.Equal(t, 1, strings.Count(resp.Body, css), "duplicate contributions are injected once")
	assert.Equal(t, 1, strings.Count(resp.Body, js))
	assert.Less(t, strings.Index(resp.Body, css), strings.Index(resp.Body, "</head>"))
	assert.Less(t, strings.Index(resp.Body, js), strings.Index(resp.Body, "</body>"))
}

func TestRender_LayoutSeesRegionHTML(t *testing.T) {
	e, registry, _ := setupEngineTest(t)
	registry.RegisterComponent(site.ComponentTypePart, "text", staticPart("<p>inner</p>", site.PageContributions{}))
	registry.RegisterComponent(site.ComponentTypeLayout, "box", site.ControllerFunc(
		func(ctx context.Context, req *site.Request) (*site.Response, error) {
			return site.NewHTMLResponse("<section>" + string(req.RegionHTML["left"]) + "</section>"), nil
		}))

	content := pageContent("/site/layout", &site.Component{
		Type:       site.ComponentTypeLayout,
		Descriptor: "box",
		Regions: map[string]*site.Region{
			"left": {Name: "left", Components: []*site.Component{{Type: site.ComponentTypePart, Descriptor: "text"}}},
		},
	})

	resp, err := e.Render(context.Background(), &site.Request{Content: content})
	require.NoError(t, err)
	assert.Contains(t, resp.Body, "<section><p>inner</p></section>")
}

func TestRender_NoBodyComponentContributesNothing(t *testing.T) {
	e, registry, _ := setupEngineTest(t)
	registry.RegisterComponent(site.ComponentTypeLayout, "empty", site.ControllerFunc(
		func(ctx context.Context, req *site.Request) (*site.Response, error) {
			return site.NoBody(), nil
		}))

	content := pageContent("/site/empty", &site.Component{Type: site.ComponentTypeLayout, Descriptor: "empty"})
	resp, err := e.Render(context.Background(), &site.Request{Content: content})
	require.NoError(t, err)
	assert.Contains(t, resp.Body, "<body></body>")
}

func TestRender_UnknownPartIsSkipped(t *testing.T) {
	e, _, _ := setupEngineTest(t)
	content := pageContent("/site/unknown", &site.Component{Type: site.ComponentTypePart, Descriptor: "missing"})

	resp, err := e.Render(context.Background(), &site.Request{Content: content})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestRender_UnknownPageFails(t *testing.T) {
	e, _, _ := setupEngineTest(t)
	content := pageContent("/site/unknown")
	content.Page.Descriptor = "other"

	_, err := e.Render(context.Background(), &site.Request{Content: content})
	assert.True(t, errors.Is(err, site.ErrControllerNotFound))
}

func TestRender_ControllerErrorPropagates(t *testing.T) {
	e, registry, _ := setupEngineTest(t)
	boom := errors.New("boom")
	registry.RegisterComponent(site.ComponentTypePart, "broken", site.ControllerFunc(
		func(ctx context.Context, req *site.Request) (*site.Response, error) {
			return nil, boom
		}))

	content := pageContent("/site/broken", &site.Component{Type: site.ComponentTypePart, Descriptor: "broken"})
	_, err := e.Render(context.Background(), &site.Request{Content: content})
	assert.ErrorIs(t, err, boom)
}

func TestRender_ContentTypeController(t *testing.T) {
	e, registry, _ := setupEngineTest(t)
	registry.RegisterContentType("portfolio", engine.ContentPage(shellRenderer{}, "page.html",
		staticPart("<article>p</article>", site.PageContributions{BodyEnd: []string{"<script></script>"}})))

	content := &site.Content{Path: "/site/p", DisplayName: "P", Type: "portfolio", InheritPermissions: true}
	resp, err := e.Render(context.Background(), &site.Request{Content: content})
	require.NoError(t, err)
	assert.Contains(t, resp.Body, "<article>p</article>")
	assert.Contains(t, resp.Body, "<script></script>\n</body>")
}

func TestRender_NoController(t *testing.T) {
	e, _, _ := setupEngineTest(t)
	content := &site.Content{Path: "/site/f", Type: site.ContentTypeFolder, InheritPermissions: true}

	_, err := e.Render(context.Background(), &site.Request{Content: content})
	assert.ErrorIs(t, err, site.ErrControllerNotFound)
}

func TestRender_AccessDenied(t *testing.T) {
	e, _, _ := setupEngineTest(t)
	content := pageContent("/site/private")
	content.InheritPermissions = false
	content.Permissions = site.AccessControlList{site.AllowAll(site.PrincipalContentManagerAdmin)}

	_, err := e.Render(context.Background(), &site.Request{Content: content})
	assert.ErrorIs(t, err, site.ErrAccessDenied)
}

func TestCanRead_InheritsFromAncestors(t *testing.T) {
	e, _, repo := setupEngineTest(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &site.Content{Path: "/site/a", Name: "a", InheritPermissions: true}))

	ok, err := e.CanRead(ctx, &site.Content{Path: "/site/a/b", InheritPermissions: true})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.CanRead(ctx, &site.Content{Path: "/orphan/x", InheritPermissions: true})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInjectContributions_NoTags(t *testing.T) {
	body := engine.InjectContributions("<div>x</div>", site.PageContributions{HeadEnd: []string{"<link>"}})
	assert.Equal(t, "<div>x</div>", body)
}
