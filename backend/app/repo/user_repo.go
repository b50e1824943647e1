package repo

import (
	"context"
	"errors"

	"blog-cms/backend/app/models"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Get(ctx context.Context, id uint) (*models.User, error) {
	return getByID[models.User](ctx, r.db, id)
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(ctx context.Context, id uint, updates map[string]any) (bool, error) {
	return updateByID[models.User](ctx, r.db, id, updates)
}

func (r *UserRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return deleteByID[models.User](ctx, r.db, id)
}

func (r *UserRepository) CountPosts(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", id).Count(&count).Error
	return count, err
}
