package site

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type contentService struct {
	repo Repository
}

// NewContentService creates a ContentService backed by repo.
func NewContentService(repo Repository) ContentService {
	return &contentService{repo: repo}
}

func (s *contentService) Get(ctx context.Context, key string) (*Content, error) {
	if strings.HasPrefix(key, "/") {
		content, err := s.repo.GetByPath(ctx, CleanPath(key))
		if err != nil {
			return nil, &ContentError{Key: key, Op: "get", Err: err}
		}
		return content, nil
	}

	id, err := uuid.Parse(key)
	if err != nil {
		return nil, &ContentError{Key: key, Op: "get", Err: ErrInvalidKey}
	}
	content, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &ContentError{Key: key, Op: "get", Err: err}
	}
	return content, nil
}

func (s *contentService) Children(ctx context.Context, key string) ([]*Content, error) {
	parent, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.Children(ctx, parent.Path)
	if err != nil {
		return nil, &ContentError{Key: key, Op: "children", Err: err}
	}
	return children, nil
}
