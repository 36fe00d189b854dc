package views

import (
	"html/template"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRenderer_AllViews(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	tests := []struct {
		view  string
		model any
		want  []string
	}{
		{Page, map[string]any{"Title": "Home", "Regions": map[string]template.HTML{"main": "<p>x</p>"}}, []string{"<title>Home</title>", "<main><p>x</p></main>"}},
		{Error, map[string]any{"Status": 404, "Title": "Not Found", "Message": ""}, []string{"<h1>404 Not Found</h1>"}},
		{Banner, map[string]any{"Image": "/img.png", "Text": "Hi", "URL": "", "Color": ""}, []string{`src="/img.png"`, "Hi"}},
		{BannerFrontpage, map[string]any{"Banners": []map[string]any{
			{"Image": "", "Title": "One", "LinkTarget": "/one", "BackgroundColor": ""},
		}}, []string{"<h2>One</h2>", `href="/one"`}},
		{LayoutOneCol, map[string]any{"Left": template.HTML("<b>left</b>")}, []string{"<b>left</b>"}},
		{Portfolio, map[string]any{"Title": "P", "Intro": "<p>intro</p>", "Credit": "Jane Doe", "URL": "", "Image": "/t", "ImageFull": "/f"}, []string{"<p>intro</p>", "Photo: Jane Doe"}},
		{PortfolioList, map[string]any{"Items": []map[string]any{{"Title": "A", "Image": "", "ImageFull": "", "Credit": ""}}}, []string{"<h3>A</h3>"}},
	}
	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			out, err := r.Render(tt.view, tt.model)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"js/slick.min.js", "css/slick.css"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}
