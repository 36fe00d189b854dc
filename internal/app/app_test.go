package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tendant/simple-site/pkg/site"
	"github.com/tendant/simple-site/pkg/site/engine"
	"github.com/tendant/simple-site/pkg/site/repo/memory"
	"github.com/tendant/simple-site/pkg/site/sitetest"
)

func TestRegister(t *testing.T) {
	registry := engine.NewRegistry()
	Register(registry, site.NewContentService(memory.New()), &sitetest.Portal{}, &sitetest.Renderer{}, Options{})

	assert.Equal(t, []string{
		"layout:layout-1-col",
		"page:default",
		"part:banner",
		"part:banner-frontpage",
		"part:portfolio-list",
	}, registry.Keys())

	_, ok := registry.ContentType(site.ContentTypePortfolio)
	assert.True(t, ok)
}
