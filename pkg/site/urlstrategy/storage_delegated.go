package urlstrategy

import (
	"context"
	"fmt"

	"github.com/tendant/simple-site/pkg/site/scale"
)

// BlobStore interface for URL generation (to avoid circular imports)
type BlobStore interface {
	GetPreviewURL(ctx context.Context, objectKey string) (string, error)
}

// StorageDelegatedStrategy delegates image URLs to the blob store holding
// the original binary. No rendition service sits in front of the store, so
// the scale is not applied. Pages and assets are served by the site.
type StorageDelegatedStrategy struct {
	BlobStore BlobStore
	site      *ContentBasedStrategy
}

// NewStorageDelegatedStrategy creates a new storage-delegated URL strategy
func NewStorageDelegatedStrategy(blobStore BlobStore, siteBaseURL string) *StorageDelegatedStrategy {
	return &StorageDelegatedStrategy{
		BlobStore: blobStore,
		site:      NewContentBasedStrategy(siteBaseURL),
	}
}

// ImageURL delegates to the blob store's preview URL
func (s *StorageDelegatedStrategy) ImageURL(ctx context.Context, image ImageRef, sc scale.Scale) (string, error) {
	if image.ObjectKey == "" {
		return "", fmt.Errorf("image %s has no object key", image.ContentID)
	}
	return s.BlobStore.GetPreviewURL(ctx, image.ObjectKey)
}

// PageURL maps the content path onto the site
func (s *StorageDelegatedStrategy) PageURL(ctx context.Context, path string) (string, error) {
	return s.site.PageURL(ctx, path)
}

// AssetURL routes assets through the site's asset endpoint
func (s *StorageDelegatedStrategy) AssetURL(ctx context.Context, path string) (string, error) {
	return s.site.AssetURL(ctx, path)
}
