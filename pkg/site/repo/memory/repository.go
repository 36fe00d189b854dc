package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-site/pkg/site"
)

// Repository implements site.Repository using in-memory storage
type Repository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*site.Content
	byPath map[string]uuid.UUID
}

// New creates a new in-memory repository
func New() site.Repository {
	return &Repository{
		byID:   make(map[uuid.UUID]*site.Content),
		byPath: make(map[string]uuid.UUID),
	}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*site.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	content, exists := r.byID[id]
	if !exists {
		return nil, site.ErrContentNotFound
	}
	return cloneContent(content), nil
}

func (r *Repository) GetByPath(ctx context.Context, path string) (*site.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.byPath[site.CleanPath(path)]
	if !exists {
		return nil, site.ErrContentNotFound
	}
	return cloneContent(r.byID[id]), nil
}

func (r *Repository) Children(ctx context.Context, parentPath string) ([]*site.Content, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parentPath = site.CleanPath(parentPath)
	var result []*site.Content
	for _, content := range r.byID {
		if content.Path != "/" && site.ParentPath(content.Path) == parentPath {
			result = append(result, cloneContent(content))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

func (r *Repository) Exists(ctx context.Context, path string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byPath[site.CleanPath(path)]
	return exists, nil
}

func (r *Repository) Create(ctx context.Context, content *site.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	content.Path = site.CleanPath(content.Path)
	if _, exists := r.byID[content.ID]; exists {
		return site.ErrContentExists
	}
	if _, exists := r.byPath[content.Path]; exists {
		return site.ErrContentExists
	}

	now := time.Now().UTC()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	content.ModifiedAt = now

	r.byID[content.ID] = cloneContent(content)
	r.byPath[content.Path] = content.ID
	return nil
}

func (r *Repository) Update(ctx context.Context, content *site.Content) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.byID[content.ID]
	if !exists {
		return site.ErrContentNotFound
	}
	content.Path = site.CleanPath(content.Path)
	if content.Path != existing.Path {
		if _, taken := r.byPath[content.Path]; taken {
			return site.ErrContentExists
		}
		delete(r.byPath, existing.Path)
		r.byPath[content.Path] = content.ID
	}

	content.CreatedAt = existing.CreatedAt
	content.ModifiedAt = time.Now().UTC()
	r.byID[content.ID] = cloneContent(content)
	return nil
}

// cloneContent deep-copies content so callers cannot mutate stored state.
func cloneContent(c *site.Content) *site.Content {
	out := *c
	out.Data = cloneData(c.Data)
	out.Page = clonePage(c.Page)
	if c.Attachment != nil {
		a := *c.Attachment
		out.Attachment = &a
	}
	if c.Permissions != nil {
		out.Permissions = make(site.AccessControlList, len(c.Permissions))
		for i, entry := range c.Permissions {
			out.Permissions[i] = site.AccessControlEntry{
				Principal: entry.Principal,
				Allow:     append([]site.Permission(nil), entry.Allow...),
			}
		}
	}
	return &out
}

// cloneData copies a property tree through a JSON round trip, which also
// normalises nested values to the shapes the postgres repository returns.
func cloneData(d site.Data) site.Data {
	if d == nil {
		return nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return d
	}
	var out site.Data
	if err := json.Unmarshal(raw, &out); err != nil {
		return d
	}
	return out
}

func clonePage(p *site.Component) *site.Component {
	if p == nil {
		return nil
	}
	out := *p
	out.Config = cloneData(p.Config)
	if p.Regions != nil {
		out.Regions = make(map[string]*site.Region, len(p.Regions))
		for name, region := range p.Regions {
			if region == nil {
				continue
			}
			r := &site.Region{Name: region.Name}
			for _, child := range region.Components {
				r.Components = append(r.Components, clonePage(child))
			}
			out.Regions[name] = r
		}
	}
	return &out
}
