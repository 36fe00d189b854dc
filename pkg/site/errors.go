package site

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrContentNotFound indicates a content was not found
	ErrContentNotFound = errors.New("content not found")

	// ErrContentExists indicates a content already exists at the given path or id
	ErrContentExists = errors.New("content already exists")

	// ErrInvalidKey indicates a content key is neither a path nor an id
	ErrInvalidKey = errors.New("invalid content key")

	// ErrInvalidScale indicates an image scale expression could not be parsed
	ErrInvalidScale = errors.New("invalid image scale")

	// ErrNotAnImage indicates the referenced content has no image attachment
	ErrNotAnImage = errors.New("content is not an image")

	// ErrControllerNotFound indicates no controller is registered for a descriptor or content type
	ErrControllerNotFound = errors.New("controller not found")

	// ErrAccessDenied indicates the current principals may not read the content
	ErrAccessDenied = errors.New("access denied")

	// ErrBlobNotFound indicates a binary was not found in the blob store
	ErrBlobNotFound = errors.New("blob not found")
)

// ContentError represents an error related to a content lookup
type ContentError struct {
	Key string
	Op  string
	Err error
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("content operation %s failed for %s: %v", e.Op, e.Key, e.Err)
}

func (e *ContentError) Unwrap() error {
	return e.Err
}

// RenderError represents a failure while rendering a view or component
type RenderError struct {
	View string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s failed: %v", e.View, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
