package site

import (
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Content types known to the site.
const (
	ContentTypeFolder    = "base:folder"
	ContentTypeSite      = "portal:site"
	ContentTypeImage     = "media:image"
	ContentTypePortfolio = "portfolio"
)

// Content is a structured record managed by the content repository.
type Content struct {
	ID                 uuid.UUID         `json:"id"`
	Path               string            `json:"path"`
	Name               string            `json:"name"`
	DisplayName        string            `json:"display_name"`
	Type               string            `json:"type"`
	Data               Data              `json:"data,omitempty"`
	Page               *Component        `json:"page,omitempty"`
	Attachment         *Attachment       `json:"attachment,omitempty"`
	Permissions        AccessControlList `json:"permissions,omitempty"`
	InheritPermissions bool              `json:"inherit_permissions"`
	CreatedAt          time.Time         `json:"created_at"`
	ModifiedAt         time.Time         `json:"modified_at"`
}

// Attachment describes the binary of a media content.
type Attachment struct {
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	ObjectKey string `json:"object_key"`
}

// IsImage reports whether the content carries an image binary.
func (c *Content) IsImage() bool {
	return c.Attachment != nil && strings.HasPrefix(c.Attachment.MimeType, "image/")
}

// ParentPath returns the path of the parent content, "/" for root children.
func (c *Content) ParentPath() string {
	return ParentPath(c.Path)
}

// ParentPath returns the parent of a content path.
func ParentPath(p string) string {
	parent := path.Dir(CleanPath(p))
	if parent == "." {
		return "/"
	}
	return parent
}

// JoinPath builds a child content path.
func JoinPath(parent, name string) string {
	return CleanPath(path.Join(parent, name))
}

// CleanPath normalises a content path to a rooted path without a trailing slash.
func CleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
