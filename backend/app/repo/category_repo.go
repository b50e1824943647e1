package repo

import (
	"context"

	"blog-cms/backend/app/models"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var result []models.Category
	err := r.db.WithContext(ctx).Order("id").Find(&result).Error
	return result, err
}

func (r *CategoryRepository) Get(ctx context.Context, id uint) (*models.Category, error) {
	return getByID[models.Category](ctx, r.db, id)
}

func (r *CategoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists[models.Category](ctx, r.db, id)
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CategoryRepository) Rename(ctx context.Context, id uint, name string) (bool, error) {
	return updateByID[models.Category](ctx, r.db, id, map[string]any{"name": name})
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return deleteByID[models.Category](ctx, r.db, id)
}
