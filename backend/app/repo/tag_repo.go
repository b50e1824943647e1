package repo

import (
	"context"

	"blog-cms/backend/app/models"

	"gorm.io/gorm"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]models.Tag, error) {
	var result []models.Tag
	err := r.db.WithContext(ctx).Order("id").Find(&result).Error
	return result, err
}

func (r *TagRepository) Get(ctx context.Context, id uint) (*models.Tag, error) {
	return getByID[models.Tag](ctx, r.db, id)
}

func (r *TagRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists[models.Tag](ctx, r.db, id)
}

func (r *TagRepository) Create(ctx context.Context, c *models.Tag) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *TagRepository) Rename(ctx context.Context, id uint, name string) (bool, error) {
	return updateByID[models.Tag](ctx, r.db, id, map[string]any{"name": name})
}

func (r *TagRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return deleteByID[models.Tag](ctx, r.db, id)
}
