package services

import (
	"context"
	"errors"
	"strings"

	"blog-cms/backend/app/cache"
	"blog-cms/backend/app/models"
	"blog-cms/backend/app/repo"
)

type TagService struct {
	repo  *repo.TagRepository
	views cache.Views
}

func NewTagService(repo *repo.TagRepository, views cache.Views) *TagService {
	return &TagService{repo: repo, views: views}
}

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fail(ErrNotFound, "no tags found")
	}
	return items, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fail(ErrNotFound, "tag not found")
	}
	return item, nil
}

// Create inserts a tag in one constrained write; a duplicate name is
// reported by the unique index.
func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fail(ErrInvalidInput, "name is required")
	}
	item := &models.Tag{Name: name}
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fail(ErrConflict, "tag already exists")
		}
		return nil, err
	}
	return item, nil
}

func (s *TagService) Update(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fail(ErrInvalidInput, "name is required")
	}
	found, err := s.repo.Rename(ctx, id, name)
	if errors.Is(err, repo.ErrDuplicate) {
		return fail(ErrConflict, "tag already exists")
	}
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "tag not found")
	}
	invalidate(ctx, s.views)
	return nil
}

// Delete removes a tag; posts referencing it keep existing without one.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "tag not found")
	}
	invalidate(ctx, s.views)
	return nil
}
