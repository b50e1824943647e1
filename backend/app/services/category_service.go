package services

import (
	"context"
	"errors"
	"strings"

	"blog-cms/backend/app/cache"
	"blog-cms/backend/app/models"
	"blog-cms/backend/app/repo"
)

type CategoryService struct {
	repo  *repo.CategoryRepository
	views cache.Views
}

func NewCategoryService(repo *repo.CategoryRepository, views cache.Views) *CategoryService {
	return &CategoryService{repo: repo, views: views}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fail(ErrNotFound, "no categories found")
	}
	return items, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fail(ErrNotFound, "category not found")
	}
	return item, nil
}

// Create inserts a category in one constrained write; a duplicate name is
// reported by the unique index.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fail(ErrInvalidInput, "name is required")
	}
	item := &models.Category{Name: name}
	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fail(ErrConflict, "category already exists")
		}
		return nil, err
	}
	return item, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fail(ErrInvalidInput, "name is required")
	}
	found, err := s.repo.Rename(ctx, id, name)
	if errors.Is(err, repo.ErrDuplicate) {
		return fail(ErrConflict, "category already exists")
	}
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "category not found")
	}
	invalidate(ctx, s.views)
	return nil
}

// Delete removes a category; posts referencing it keep existing without one.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "category not found")
	}
	invalidate(ctx, s.views)
	return nil
}
