package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-site/pkg/site"
)

func TestBackend_UploadDownload(t *testing.T) {
	b := New()
	ctx := context.Background()

	require.NoError(t, b.Upload(ctx, "binaries/a.svg", strings.NewReader("<svg/>"), "image/svg+xml"))

	exists, err := b.Exists(ctx, "binaries/a.svg")
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := b.Download(ctx, "binaries/a.svg")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	mimeType, ok := b.MimeType("binaries/a.svg")
	assert.True(t, ok)
	assert.Equal(t, "image/svg+xml", mimeType)
}

func TestBackend_DefaultMimeType(t *testing.T) {
	b := New()
	require.NoError(t, b.Upload(context.Background(), "k", strings.NewReader("x"), ""))
	mimeType, _ := b.MimeType("k")
	assert.Equal(t, "application/octet-stream", mimeType)
}

func TestBackend_Missing(t *testing.T) {
	b := New()
	ctx := context.Background()

	_, err := b.Download(ctx, "missing")
	assert.ErrorIs(t, err, site.ErrBlobNotFound)

	exists, err := b.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = b.GetPreviewURL(ctx, "missing")
	assert.Error(t, err)
}
