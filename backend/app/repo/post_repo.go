package repo

import (
	"context"
	"fmt"
	"strings"

	"blog-cms/backend/app/models"

	"gorm.io/gorm"
)

// ViewFilter narrows post views. Zero fields do not filter.
type ViewFilter struct {
	ID         uint
	AuthorID   uint
	CategoryID uint
	Status     models.Status
}

// Key identifies the filter in caches.
func (f ViewFilter) Key() string {
	parts := []string{"all"}
	if f.ID != 0 {
		parts = append(parts, fmt.Sprintf("id=%d", f.ID))
	}
	if f.AuthorID != 0 {
		parts = append(parts, fmt.Sprintf("author=%d", f.AuthorID))
	}
	if f.CategoryID != 0 {
		parts = append(parts, fmt.Sprintf("category=%d", f.CategoryID))
	}
	if f.Status != "" {
		parts = append(parts, "status="+string(f.Status))
	}
	return strings.Join(parts, ":")
}

const viewColumns = `p.id, p.title, p.slug, p.content, p.status, p.created_at,
	u.id AS author_id, u.name AS author_name,
	c.id AS category_id, c.name AS category_name,
	t.id AS tag_id, t.name AS tag_name`

type PostRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) *PostRepository { return &PostRepository{db: db} }

func (r *PostRepository) Create(ctx context.Context, p *models.Post) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PostRepository) Get(ctx context.Context, id uint) (*models.Post, error) {
	return getByID[models.Post](ctx, r.db, id)
}

func (r *PostRepository) Update(ctx context.Context, id uint, updates map[string]any) (bool, error) {
	return updateByID[models.Post](ctx, r.db, id, updates)
}

func (r *PostRepository) Delete(ctx context.Context, id uint) (bool, error) {
	return deleteByID[models.Post](ctx, r.db, id)
}

// Views left-joins posts with their author, category and tag so posts
// without a category or tag still appear. It never writes.
func (r *PostRepository) Views(ctx context.Context, f ViewFilter) ([]models.PostView, error) {
	q := r.db.WithContext(ctx).
		Table("posts AS p").
		Select(viewColumns).
		Joins("LEFT JOIN users u ON p.author_id = u.id").
		Joins("LEFT JOIN categories c ON p.category_id = c.id").
		Joins("LEFT JOIN tags t ON p.tag_id = t.id")
	if f.ID != 0 {
		q = q.Where("p.id = ?", f.ID)
	}
	if f.AuthorID != 0 {
		q = q.Where("p.author_id = ?", f.AuthorID)
	}
	if f.CategoryID != 0 {
		q = q.Where("p.category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		q = q.Where("p.status = ?", f.Status)
	}
	var views []models.PostView
	if err := q.Order("p.id").Scan(&views).Error; err != nil {
		return nil, err
	}
	return views, nil
}
