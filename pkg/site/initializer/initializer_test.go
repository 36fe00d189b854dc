package initializer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/events"
	"github.com/tendant/simple-site/pkg/site/repo/memory"
	storagememory "github.com/tendant/simple-site/pkg/site/storage/memory"
)

func setupInitializerTest(t *testing.T, opts ...Option) (*Initializer, site.Repository, *storagememory.Backend) {
	t.Helper()
	repo := memory.New()
	blobs := storagememory.New()
	return New(repo, blobs, opts...), repo, blobs
}

func TestInitialize(t *testing.T) {
	seeder, repo, blobs := setupInitializerTest(t)
	ctx := context.Background()

	result, err := seeder.Initialize(ctx)
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	require.NotNil(t, result.Import)
	assert.Len(t, result.Import.Added, 7)
	assert.Equal(t, []string{"binaries/hero.svg", "binaries/bridge.svg"}, result.Import.Binaries)
	assert.Empty(t, result.Import.Errors)
	assert.True(t, result.LargeTreeCreated)
	assert.Equal(t, 6, result.PermissionsSet)

	demo, err := repo.GetByPath(ctx, DemoSitePath)
	require.NoError(t, err)
	assert.False(t, demo.InheritPermissions)
	assert.True(t, demo.Permissions.IsAllowed(site.AnonymousPrincipals, site.PermissionRead))
	assert.False(t, demo.Permissions.IsAllowed(site.AnonymousPrincipals, site.PermissionModify))
	require.NotNil(t, demo.Page)

	item, err := repo.GetByPath(ctx, "/my-corporation/portfolio/harbour-bridge")
	require.NoError(t, err)
	assert.Equal(t, DemoPermissions, item.Permissions)

	image, err := repo.GetByPath(ctx, "/my-corporation/images/hero.svg")
	require.NoError(t, err)
	require.NotNil(t, image.Attachment)
	assert.Equal(t, "binaries/hero.svg", image.Attachment.ObjectKey)
	assert.Positive(t, image.Attachment.Size)
	assert.True(t, image.IsImage())

	ok, err := blobs.Exists(ctx, "binaries/hero.svg")
	require.NoError(t, err)
	assert.True(t, ok)
	mime, _ := blobs.MimeType("binaries/hero.svg")
	assert.Equal(t, "image/svg+xml", mime)
}

func TestInitialize_LargeTree(t *testing.T) {
	seeder, repo, _ := setupInitializerTest(t)
	ctx := context.Background()

	_, err := seeder.Initialize(ctx)
	require.NoError(t, err)

	nodes, err := repo.Children(ctx, LargeTreePath)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	for _, node := range nodes {
		children, err := repo.Children(ctx, node.Path)
		require.NoError(t, err)
		assert.Len(t, children, 100)
	}

	root, err := repo.GetByPath(ctx, LargeTreePath)
	require.NoError(t, err)
	assert.False(t, root.InheritPermissions)
	assert.Equal(t, DemoPermissions, root.Permissions)
}

func TestInitialize_SkipsWhenPresent(t *testing.T) {
	seeder, _, _ := setupInitializerTest(t)
	ctx := context.Background()

	_, err := seeder.Initialize(ctx)
	require.NoError(t, err)

	result, err := seeder.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Nil(t, result.Import)
}

func TestInitialize_RecordsNodeErrors(t *testing.T) {
	source := fstest.MapFS{
		"import/content.json": {Data: []byte(`{"nodes": [
			{"path": "/my-corporation", "name": "my-corporation", "type": "portal:site"},
			{"path": "/my-corporation/logo.png", "name": "logo.png", "type": "media:image",
			 "attachment": {"name": "logo.png", "mime_type": "image/png"}, "binary": "binaries/missing.png"},
			{"path": "/my-corporation", "name": "dup", "type": "base:folder"}
		]}`)},
	}
	seeder, repo, _ := setupInitializerTest(t, WithSource(source))
	ctx := context.Background()

	result, err := seeder.Initialize(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"/my-corporation"}, result.Import.Added)
	require.Len(t, result.Import.Errors, 2)
	assert.Equal(t, "/my-corporation/logo.png", result.Import.Errors[0].Path)
	assert.Equal(t, "/my-corporation", result.Import.Errors[1].Path)

	exists, err := repo.Exists(ctx, "/my-corporation/logo.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInitialize_BadManifest(t *testing.T) {
	seeder, _, _ := setupInitializerTest(t, WithSource(fstest.MapFS{
		"import/content.json": {Data: []byte(`{`)},
	}))
	_, err := seeder.Initialize(context.Background())
	assert.Error(t, err)
}

func TestApplyPermissions_StopsAtNonInheriting(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	acl := site.AccessControlList{site.AllowAll(site.PrincipalContentManagerAdmin)}
	own := site.AccessControlList{site.Allow(site.PrincipalEveryone, site.PermissionRead)}

	root := &site.Content{Path: "/a", Name: "a", Permissions: acl}
	require.NoError(t, repo.Create(ctx, root))
	require.NoError(t, repo.Create(ctx, &site.Content{Path: "/a/inherits", Name: "inherits", InheritPermissions: true}))
	require.NoError(t, repo.Create(ctx, &site.Content{Path: "/a/own", Name: "own", Permissions: own}))
	require.NoError(t, repo.Create(ctx, &site.Content{Path: "/a/own/child", Name: "child", InheritPermissions: true}))

	n, err := ApplyPermissions(ctx, repo, root)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	inherits, _ := repo.GetByPath(ctx, "/a/inherits")
	assert.Equal(t, acl, inherits.Permissions)
	ownNode, _ := repo.GetByPath(ctx, "/a/own")
	assert.Equal(t, own, ownNode.Permissions)
	child, _ := repo.GetByPath(ctx, "/a/own/child")
	assert.Equal(t, own, child.Permissions)
}

type publishedEvent struct {
	Type    string
	Subject string
	Data    any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType, subject string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{Type: eventType, Subject: subject, Data: data})
	return p.err
}

func (p *recordingPublisher) ofType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func TestInitialize_PublishesEvents(t *testing.T) {
	publisher := &recordingPublisher{}
	seeder, _, _ := setupInitializerTest(t, WithPublisher(publisher))

	result, err := seeder.Initialize(context.Background())
	require.NoError(t, err)

	imported := publisher.ofType(events.TypeContentImported)
	require.Len(t, imported, len(result.Import.Added))
	assert.Equal(t, result.Import.Added[0], imported[0].Subject)

	tree := publisher.ofType(events.TypeLargeTreeCreated)
	require.Len(t, tree, 1)
	assert.Equal(t, LargeTreePath, tree[0].Subject)
	assert.Equal(t, map[string]any{"nodes": 202}, tree[0].Data)

	perms := publisher.ofType(events.TypePermissionsApplied)
	require.Len(t, perms, 1)
	assert.Equal(t, DemoSitePath, perms[0].Subject)
	assert.Equal(t, map[string]any{"updated": result.PermissionsSet}, perms[0].Data)
}

func TestInitialize_PublishFailureIsNotFatal(t *testing.T) {
	publisher := &recordingPublisher{err: errors.New("broker down")}
	seeder, _, _ := setupInitializerTest(t, WithPublisher(publisher))

	result, err := seeder.Initialize(context.Background())
	require.NoError(t, err)
	assert.Len(t, result.Import.Added, 7)
	assert.NotEmpty(t, publisher.events)
}

func TestInitialize_SkippedPublishesNothing(t *testing.T) {
	publisher := &recordingPublisher{}
	seeder, _, _ := setupInitializerTest(t, WithPublisher(publisher))
	ctx := context.Background()

	_, err := seeder.Initialize(ctx)
	require.NoError(t, err)
	before := len(publisher.events)

	result, err := seeder.Initialize(ctx)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Len(t, publisher.events, before)
}
