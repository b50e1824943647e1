package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"blog-cms/backend/app/cache"
	"blog-cms/backend/app/dto"
	"blog-cms/backend/app/models"
	"blog-cms/backend/app/repo"
	"blog-cms/backend/global"
)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	ID   uint
	Name string
	Role models.Role
}

type PostService struct {
	posts      *repo.PostRepository
	categories *repo.CategoryRepository
	tags       *repo.TagRepository
	views      cache.Views
}

func NewPostService(posts *repo.PostRepository, categories *repo.CategoryRepository, tags *repo.TagRepository, views cache.Views) *PostService {
	return &PostService{posts: posts, categories: categories, tags: tags, views: views}
}

// List returns joined post views matching f. An empty result is reported
// as ErrNotFound rather than as an empty list.
func (s *PostService) List(ctx context.Context, f repo.ViewFilter) ([]models.PostView, error) {
	key := f.Key()
	cached, gen, hit, err := s.views.Get(ctx, key)
	if err != nil {
		global.Logger.Warn().Err(err).Str("key", key).Msg("post view cache read failed")
	} else if hit {
		return cached, nil
	}
	fill := err == nil
	views, err := s.posts.Views(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, fail(ErrNotFound, "%s", emptyMessage(f))
	}
	if !fill {
		return views, nil
	}
	// gen was read before the store query; a write committed since then has
	// already moved past it.
	if err := s.views.Set(ctx, gen, key, views); err != nil {
		global.Logger.Warn().Err(err).Str("key", key).Msg("post view cache write failed")
	}
	return views, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.PostView, error) {
	views, err := s.List(ctx, repo.ViewFilter{ID: id})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Create stores a new post authored by actor. The author never comes from
// the request body.
func (s *PostService) Create(ctx context.Context, actor Actor, req dto.PostRequest) (*models.Post, error) {
	p := &models.Post{AuthorID: actor.ID}
	if err := s.fill(ctx, p, req); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrForeignKey) {
			return nil, fail(ErrInvalidInput, "referenced author, category or tag does not exist")
		}
		return nil, err
	}
	invalidate(ctx, s.views)
	return p, nil
}

// Update replaces the mutable fields of a post. Authors may only update
// their own posts; author_id and created_at never change.
func (s *PostService) Update(ctx context.Context, actor Actor, id uint, req dto.PostRequest) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	var p models.Post
	if err := s.fill(ctx, &p, req); err != nil {
		return err
	}
	found, err := s.posts.Update(ctx, id, map[string]any{
		"title":       p.Title,
		"slug":        p.Slug,
		"content":     p.Content,
		"status":      p.Status,
		"category_id": p.CategoryID,
		"tag_id":      p.TagID,
	})
	if errors.Is(err, repo.ErrForeignKey) {
		return fail(ErrInvalidInput, "referenced category or tag does not exist")
	}
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "post not found")
	}
	invalidate(ctx, s.views)
	return nil
}

func (s *PostService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	found, err := s.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "post not found")
	}
	invalidate(ctx, s.views)
	return nil
}

func (s *PostService) owned(ctx context.Context, actor Actor, id uint) (*models.Post, error) {
	p, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fail(ErrNotFound, "post not found")
	}
	if actor.Role != models.RoleAdmin && p.AuthorID != actor.ID {
		return nil, fail(ErrForbidden, "you can only modify your own posts")
	}
	return p, nil
}

// fill validates req and copies it onto p. Category and tag references are
// checked here for a readable error; foreign keys remain the authority.
func (s *PostService) fill(ctx context.Context, p *models.Post, req dto.PostRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return fail(ErrInvalidInput, "title and content are required")
	}
	status := models.Status(req.Status)
	if status == "" {
		status = models.StatusDraft
	}
	if !status.Valid() {
		return fail(ErrInvalidInput, "status must be draft or published")
	}
	slug := Slugify(req.Slug)
	if slug == "" {
		slug = Slugify(title)
	}
	if req.CategoryID != nil {
		ok, err := s.categories.Exists(ctx, *req.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrInvalidInput, "category %d does not exist", *req.CategoryID)
		}
	}
	if req.TagID != nil {
		ok, err := s.tags.Exists(ctx, *req.TagID)
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrInvalidInput, "tag %d does not exist", *req.TagID)
		}
	}
	p.Title = title
	p.Slug = slug
	p.Content = req.Content
	p.Status = status
	p.CategoryID = req.CategoryID
	p.TagID = req.TagID
	return nil
}

// Slugify lowercases s and joins its letter and digit runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
			continue
		}
		dash = true
	}
	return b.String()
}

func emptyMessage(f repo.ViewFilter) string {
	switch {
	case f.ID != 0:
		return "post not found"
	case f.AuthorID != 0:
		return "No posts found for this author"
	case f.CategoryID != 0:
		return "No posts found for this category"
	case f.Status == models.StatusPublished:
		return "No published posts found"
	}
	return "No posts found"
}

func invalidate(ctx context.Context, views cache.Views) {
	if err := views.Invalidate(ctx); err != nil {
		global.Logger.Warn().Err(err).Msg("post view cache invalidation failed")
	}
}
