// Package site provides the building blocks for serving a content-managed
// web site: content and component models, the host services controllers
// depend on (content lookup, URL generation, HTML processing, template
// rendering), and the controller contract used by parts, layouts and
// content types.
//
// Controllers are thin. They read fields from the content or component
// attached to a Request, call a handful of Portal services, assemble a flat
// view model and hand it to a Renderer. Repositories (memory, Postgres),
// blob stores (memory, S3), URL strategies and the page engine live in
// subpackages.
package site
