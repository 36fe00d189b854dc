// Package engine renders a content page by dispatching its component tree
// to registered controllers and assembling their output.
package engine

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/tendant/simple-site/pkg/site"
)

// Engine renders content pages
type Engine struct {
	registry   *Registry
	contents   site.ContentService
	principals []string
}

// Option configures an Engine
type Option func(*Engine)

// WithPrincipals sets the principals used for read-permission checks.
func WithPrincipals(principals ...string) Option {
	return func(e *Engine) {
		e.principals = principals
	}
}

// New creates an engine
func New(registry *Registry, contents site.ContentService, opts ...Option) *Engine {
	e := &Engine{
		registry:   registry,
		contents:   contents,
		principals: site.AnonymousPrincipals,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CanRead resolves the effective permissions of content, following
// inherited permissions up the tree, and checks READ.
func (e *Engine) CanRead(ctx context.Context, content *site.Content) (bool, error) {
	current := content
	for current.InheritPermissions && current.Path != "/" {
		parent, err := e.contents.Get(ctx, current.ParentPath())
		if err != nil {
			if errors.Is(err, site.ErrContentNotFound) {
				break
			}
			return false, err
		}
		current = parent
	}
	return current.Permissions.IsAllowed(e.principals, site.PermissionRead), nil
}

// Render renders req.Content: through its page component tree when it has
// one, otherwise through the controller registered for its content type.
func (e *Engine) Render(ctx context.Context, req *site.Request) (*site.Response, error) {
	content := req.Content
	if content == nil {
		return nil, site.ErrContentNotFound
	}

	allowed, err := e.CanRead(ctx, content)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, &site.ContentError{Key: content.Path, Op: "render", Err: site.ErrAccessDenied}
	}

	var resp *site.Response
	switch {
	case content.Page != nil:
		resp, err = e.renderComponent(ctx, req, content.Page)
	default:
		ctrl, ok := e.registry.ContentType(content.Type)
		if !ok {
			return nil, fmt.Errorf("content type %s: %w", content.Type, site.ErrControllerNotFound)
		}
		resp, err = ctrl.Get(ctx, req)
	}
	if err != nil {
		return nil, err
	}
	if resp == nil {
		resp = site.NoBody()
	}

	resp.Body = InjectContributions(resp.Body, resp.PageContributions)
	return resp, nil
}

// renderComponent renders the component's regions depth-first, in region
// name order, then the component itself with the region markup available on the request.
func (e *Engine) renderComponent(ctx context.Context, req *site.Request, comp *site.Component) (*site.Response, error) {
	var contributions site.PageContributions
	regionHTML := make(map[string]template.HTML, len(comp.Regions))

	names := make([]string, 0, len(comp.Regions))
	for name := range comp.Regions {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		region := comp.Regions[name]
		if region == nil {
			continue
		}
		var sb strings.Builder
		for _, child := range region.Components {
			resp, err := e.renderComponent(ctx, req, child)
			if err != nil {
				return nil, err
			}
			if resp == nil {
				continue
			}
			contributions = mergeContributions(contributions, resp.PageContributions)
			if resp.HasBody() {
				sb.WriteString(resp.Body)
			}
		}
		regionHTML[name] = template.HTML(sb.String())
	}

	ctrl, ok := e.registry.Component(comp.Key())
	if !ok {
		if comp.Type == site.ComponentTypePage {
			return nil, fmt.Errorf("component %s: %w", comp.Key(), site.ErrControllerNotFound)
		}
		slog.Warn("No controller for component", "component", comp.Key(), "path", req.Path)
		return &site.Response{Status: http.StatusNoContent, PageContributions: contributions}, nil
	}

	componentReq := *req
	componentReq.Component = comp
	componentReq.RegionHTML = regionHTML

	resp, err := ctrl.Get(ctx, &componentReq)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", comp.Key(), err)
	}
	if resp == nil {
		resp = site.NoBody()
	}
	resp.PageContributions = mergeContributions(contributions, resp.PageContributions)
	return resp, nil
}

func mergeContributions(a, b site.PageContributions) site.PageContributions {
	return site.PageContributions{
		HeadEnd: appendUnique(a.HeadEnd, b.HeadEnd...),
		BodyEnd: appendUnique(a.BodyEnd, b.BodyEnd...),
	}
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		dup := false
		for _, existing := range list {
			if existing == item {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, item)
		}
	}
	return list
}

// InjectContributions inserts head-end fragments before </head> and
// body-end fragments before </body>. Fragments are dropped when the body
// has no matching tag.
func InjectContributions(body string, c site.PageContributions) string {
	body = insertBefore(body, "</head>", c.HeadEnd)
	body = insertBefore(body, "</body>", c.BodyEnd)
	return body
}

func insertBefore(body, tag string, fragments []string) string {
	if len(fragments) == 0 {
		return body
	}
	idx := strings.LastIndex(strings.ToLower(body), tag)
	if idx < 0 {
		return body
	}
	return body[:idx] + strings.Join(fragments, "\n") + "\n" + body[idx:]
}
