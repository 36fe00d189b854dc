package view

import (
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-site/pkg/site"
)

func TestRenderer_Render(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/hello.html": {Data: []byte(`<p>{{.Name}}</p>{{safeHTML .Raw}}`)},
	}
	r, err := New(fsys, "templates/*.html")
	require.NoError(t, err)

	out, err := r.Render("hello.html", map[string]string{"Name": "<b>x</b>", "Raw": "<em>ok</em>"})
	require.NoError(t, err)
	assert.Equal(t, "<p>&lt;b&gt;x&lt;/b&gt;</p><em>ok</em>", out)
}

func TestRenderer_UnknownView(t *testing.T) {
	r, err := New(fstest.MapFS{"t/a.html": {Data: []byte(`a`)}}, "t/*.html")
	require.NoError(t, err)

	_, err = r.Render("missing.html", nil)
	require.Error(t, err)
	var renderErr *site.RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, "missing.html", renderErr.View)
}

func TestNew_BadPattern(t *testing.T) {
	_, err := New(fstest.MapFS{}, "nothing/*.html")
	assert.Error(t, err)
}

func TestNewWithFunc(t *testing.T) {
	boom := errors.New("boom")
	r := NewWithFunc(func(w io.Writer, name string, data any) error { return boom })
	_, err := r.Render("x", nil)
	assert.ErrorIs(t, err, boom)
}
