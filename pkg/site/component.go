package site

// Component types.
const (
	ComponentTypePage   = "page"
	ComponentTypeLayout = "layout"
	ComponentTypePart   = "part"
)

// Component is a page, layout or part placed on a content page. Layouts and
// pages expose regions holding nested components.
type Component struct {
	Type       string             `json:"type"`
	Descriptor string             `json:"descriptor"`
	Config     Data               `json:"config,omitempty"`
	Regions    map[string]*Region `json:"regions,omitempty"`
}

// Region is a named placeholder for nested components.
type Region struct {
	Name       string       `json:"name"`
	Components []*Component `json:"components,omitempty"`
}

// Region returns the named region, or nil.
func (c *Component) Region(name string) *Region {
	if c == nil || c.Regions == nil {
		return nil
	}
	return c.Regions[name]
}

// Key returns the registry key for the component, e.g. "part:banner".
func (c *Component) Key() string {
	return c.Type + ":" + c.Descriptor
}
