// Package initializer seeds the repository with the demo site.
package initializer

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/events"
)

// Demo content paths.
const (
	DemoSitePath  = "/my-corporation"
	LargeTreePath = "/large-tree"
)

// Large tree shape.
const (
	largeTreeNodes    = 2
	largeTreeChildren = 100
)

// DemoPermissions are set on the demo site and the large tree.
var DemoPermissions = site.AccessControlList{
	site.Allow(site.PrincipalAnonymous, site.PermissionRead),
	site.Allow(site.PrincipalEveryone, site.PermissionRead),
	site.AllowAll(site.PrincipalAuthenticated),
	site.AllowAll(site.PrincipalContentManagerAdmin),
}

//go:embed import
var defaultSource embed.FS

// ImportError records a node that could not be imported.
type ImportError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ImportResult summarises a node import.
type ImportResult struct {
	Added    []string      `json:"added"`
	Binaries []string      `json:"binaries"`
	Errors   []ImportError `json:"errors"`
}

// Result is the outcome of Initialize.
type Result struct {
	// Skipped is set when the demo site already existed.
	Skipped          bool          `json:"skipped"`
	Import           *ImportResult `json:"import,omitempty"`
	LargeTreeCreated bool          `json:"large_tree_created"`
	PermissionsSet   int           `json:"permissions_set"`
}

type manifestNode struct {
	site.Content
	Binary string `json:"binary,omitempty"`
}

type manifest struct {
	Nodes []manifestNode `json:"nodes"`
}

// Initializer imports the demo site
type Initializer struct {
	repo      site.Repository
	blobs     site.BlobStore
	source    fs.FS
	publisher events.Publisher
}

// Option configures an Initializer
type Option func(*Initializer)

// WithSource replaces the embedded import tree. The tree must hold
// import/content.json and the binaries it references.
func WithSource(source fs.FS) Option {
	return func(i *Initializer) {
		i.source = source
	}
}

// WithPublisher emits an event for every imported node, the large tree and
// the applied permissions. Delivery failures are logged, not returned.
func WithPublisher(p events.Publisher) Option {
	return func(i *Initializer) {
		i.publisher = p
	}
}

// New creates an initializer
func New(repo site.Repository, blobs site.BlobStore, opts ...Option) *Initializer {
	i := &Initializer{
		repo:      repo,
		blobs:     blobs,
		source:    defaultSource,
		publisher: events.Noop{},
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Initialize imports the demo site unless it already exists, creates the
// large tree and applies the demo permissions.
func (i *Initializer) Initialize(ctx context.Context) (*Result, error) {
	exists, err := i.repo.Exists(ctx, DemoSitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check demo site: %w", err)
	}
	if exists {
		slog.Info("Demo site already present, skipping import", "path", DemoSitePath)
		return &Result{Skipped: true}, nil
	}

	imported, err := i.importNodes(ctx)
	if err != nil {
		return nil, err
	}
	logImport(imported)
	for _, p := range imported.Added {
		i.emit(ctx, events.TypeContentImported, p, map[string]any{"path": p})
	}

	result := &Result{Import: imported}

	result.LargeTreeCreated, err = i.createLargeTree(ctx)
	if err != nil {
		return nil, err
	}
	if result.LargeTreeCreated {
		i.emit(ctx, events.TypeLargeTreeCreated, LargeTreePath, map[string]any{
			"nodes": largeTreeNodes * (largeTreeChildren + 1),
		})
	}

	demo, err := i.repo.GetByPath(ctx, DemoSitePath)
	if errors.Is(err, site.ErrContentNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	demo.Permissions = DemoPermissions
	demo.InheritPermissions = false
	if err := i.repo.Update(ctx, demo); err != nil {
		return nil, fmt.Errorf("failed to set demo permissions: %w", err)
	}

	result.PermissionsSet, err = ApplyPermissions(ctx, i.repo, demo)
	if err != nil {
		return nil, err
	}
	i.emit(ctx, events.TypePermissionsApplied, DemoSitePath, map[string]any{"updated": result.PermissionsSet})
	return result, nil
}

func (i *Initializer) emit(ctx context.Context, eventType, subject string, data any) {
	if err := i.publisher.Publish(ctx, eventType, subject, data); err != nil {
		slog.Warn("Failed to publish event", "type", eventType, "subject", subject, "error", err)
	}
}

// importNodes creates every manifest node. Nodes that fail are recorded and
// skipped; only an unreadable manifest is fatal.
func (i *Initializer) importNodes(ctx context.Context) (*ImportResult, error) {
	raw, err := fs.ReadFile(i.source, "import/content.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read import manifest: %w", err)
	}
	var m manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse import manifest: %w", err)
	}

	result := &ImportResult{}
	for _, node := range m.Nodes {
		content := node.Content

		if node.Binary != "" {
			if err := i.importBinary(ctx, node.Binary, &content); err != nil {
				result.Errors = append(result.Errors, ImportError{Path: content.Path, Message: err.Error()})
				continue
			}
			result.Binaries = append(result.Binaries, node.Binary)
		}

		if err := i.repo.Create(ctx, &content); err != nil {
			result.Errors = append(result.Errors, ImportError{Path: content.Path, Message: err.Error()})
			continue
		}
		result.Added = append(result.Added, content.Path)
	}
	return result, nil
}

func (i *Initializer) importBinary(ctx context.Context, name string, content *site.Content) error {
	data, err := fs.ReadFile(i.source, "import/"+name)
	if err != nil {
		return fmt.Errorf("failed to read binary %s: %w", name, err)
	}

	if content.Attachment == nil {
		content.Attachment = &site.Attachment{Name: content.Name}
	}
	content.Attachment.Size = int64(len(data))
	content.Attachment.ObjectKey = name

	if err := i.blobs.Upload(ctx, name, bytes.NewReader(data), content.Attachment.MimeType); err != nil {
		return fmt.Errorf("failed to upload binary %s: %w", name, err)
	}
	return nil
}

func logImport(result *ImportResult) {
	slog.Info("Imported nodes", "count", len(result.Added))
	for _, p := range result.Added {
		slog.Info("Imported node", "path", p)
	}
	slog.Info("Imported binaries", "count", len(result.Binaries))
	for _, b := range result.Binaries {
		slog.Info("Imported binary", "name", b)
	}
	for _, e := range result.Errors {
		slog.Error("Failed to import node", "path", e.Path, "error", e.Message)
	}
}

func (i *Initializer) createLargeTree(ctx context.Context) (bool, error) {
	exists, err := i.repo.Exists(ctx, LargeTreePath)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	root := &site.Content{
		Path:        LargeTreePath,
		Name:        "large-tree",
		DisplayName: "Large tree",
		Type:        site.ContentTypeFolder,
		Permissions: DemoPermissions,
	}
	if err := i.repo.Create(ctx, root); err != nil {
		return false, fmt.Errorf("failed to create large tree: %w", err)
	}

	for n := 1; n <= largeTreeNodes; n++ {
		name := fmt.Sprintf("large-tree-node-%d", n)
		parent := folder(site.JoinPath(LargeTreePath, name), name, fmt.Sprintf("Large tree node %d", n))
		if err := i.repo.Create(ctx, parent); err != nil {
			return false, fmt.Errorf("failed to create %s: %w", parent.Path, err)
		}

		for c := 1; c <= largeTreeChildren; c++ {
			childName := fmt.Sprintf("large-tree-node-%d-%d", n, c)
			child := folder(site.JoinPath(parent.Path, childName), childName, fmt.Sprintf("Large tree node %d-%d", n, c))
			if err := i.repo.Create(ctx, child); err != nil {
				return false, fmt.Errorf("failed to create %s: %w", child.Path, err)
			}
		}
	}

	slog.Info("Created large tree", "path", LargeTreePath, "nodes", largeTreeNodes*(largeTreeChildren+1))
	return true, nil
}

func folder(path, name, displayName string) *site.Content {
	return &site.Content{
		Path:               path,
		Name:               name,
		DisplayName:        displayName,
		Type:               site.ContentTypeFolder,
		InheritPermissions: true,
	}
}

// ApplyPermissions copies the permissions of root onto every descendant
// that inherits permissions, and returns the number of contents updated.
func ApplyPermissions(ctx context.Context, repo site.Repository, root *site.Content) (int, error) {
	children, err := repo.Children(ctx, root.Path)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, child := range children {
		if child.InheritPermissions {
			child.Permissions = root.Permissions
			if err := repo.Update(ctx, child); err != nil {
				return updated, fmt.Errorf("failed to apply permissions to %s: %w", child.Path, err)
			}
			updated++
		}

		n, err := ApplyPermissions(ctx, repo, child)
		updated += n
		if err != nil {
			return updated, err
		}
	}
	return updated, nil
}
