package fs

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/tendant/simple-site/pkg/site"
)

func TestFSBackend_BasicOps(t *testing.T) {
	b, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	key := "binaries/hero.svg"

	data := []byte("<svg/>")
	if err := b.Upload(ctx, key, bytes.NewReader(data), "image/svg+xml"); err != nil {
		t.Fatalf("upload: %v", err)
	}

	ok, err := b.Exists(ctx, key)
	if err != nil || !ok {
		t.Fatalf("exists: ok=%v err=%v", ok, err)
	}

	rc, err := b.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != string(data) {
		t.Fatalf("download mismatch: %q", string(got))
	}
}

func TestFSBackend_Missing(t *testing.T) {
	b, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	if _, err := b.Download(context.Background(), "nope.png"); !errors.Is(err, site.ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
	ok, err := b.Exists(context.Background(), "nope.png")
	if err != nil || ok {
		t.Fatalf("exists: ok=%v err=%v", ok, err)
	}
}

func TestFSBackend_RejectsEscapingKeys(t *testing.T) {
	b, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	for _, key := range []string{"../outside.txt", "a/../../outside.txt", ""} {
		if err := b.Upload(context.Background(), key, bytes.NewReader(nil), ""); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFSBackend_PreviewURL(t *testing.T) {
	b, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	if _, err := b.GetPreviewURL(context.Background(), "k"); err == nil {
		t.Fatalf("expected error without url prefix")
	}

	b, err = New(Config{BaseDir: t.TempDir(), URLPrefix: "https://files.example.com/"})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}
	u, err := b.GetPreviewURL(context.Background(), "binaries/hero.svg")
	if err != nil {
		t.Fatalf("preview url: %v", err)
	}
	if u != "https://files.example.com/binaries/hero.svg" {
		t.Fatalf("unexpected url %q", u)
	}
}

type failingReader struct{}

func (failingReader) Read(p []byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestFSBackend_FailedUploadLeavesNothing(t *testing.T) {
	b, err := New(Config{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("new fs backend: %v", err)
	}

	ctx := context.Background()
	if err := b.Upload(ctx, "binaries/broken.svg", io.MultiReader(bytes.NewReader([]byte("<sv")), failingReader{}), ""); err == nil {
		t.Fatalf("expected upload error")
	}
	ok, err := b.Exists(ctx, "binaries/broken.svg")
	if err != nil || ok {
		t.Fatalf("partial file left behind: ok=%v err=%v", ok, err)
	}
}
