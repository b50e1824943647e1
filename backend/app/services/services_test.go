package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"blog-cms/backend/app/cache"
	"blog-cms/backend/app/db"
	"blog-cms/backend/app/dto"
	"blog-cms/backend/app/models"
	"blog-cms/backend/app/password"
	"blog-cms/backend/app/repo"

	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	users      *UserService
	categories *CategoryService
	tags       *TagService
	posts      *PostService
	views      *countingViews
}

// countingViews records invalidations and never hits.
type countingViews struct {
	cache.Nop
	invalidations int
}

func (c *countingViews) Invalidate(context.Context) error {
	c.invalidations++
	return nil
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	views := &countingViews{}
	f := newFixtureWith(t, views)
	f.views = views
	return f
}

func newFixtureWith(t *testing.T, views cache.Views) *fixture {
	t.Helper()
	gdb, err := db.Connect(db.Config{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "svc.db")})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	categories := repo.NewCategoryRepository(gdb)
	tags := repo.NewTagRepository(gdb)
	return &fixture{
		users:      NewUserService(repo.NewUserRepository(gdb), password.NewHasher(bcrypt.MinCost), views),
		categories: NewCategoryService(categories, views),
		tags:       NewTagService(tags, views),
		posts:      NewPostService(repo.NewPostRepository(gdb), categories, tags, views),
	}
}

func (f *fixture) register(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u, err := f.users.Register(context.Background(), dto.RegisterRequest{Name: email, Email: email, Password: "pw", Role: string(role)})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func actorOf(u *models.User) Actor { return Actor{ID: u.ID, Name: u.Name, Role: u.Role} }

func uintPtr(v uint) *uint { return &v }

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.Register(ctx, dto.RegisterRequest{Name: "A", Email: "A@X.com ", Password: "pw", Role: "admin"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "a@x.com" || u.PasswordHash == "pw" {
		t.Fatalf("unexpected stored user: %+v", u)
	}

	got, err := f.users.Authenticate(ctx, "a@x.com", "pw")
	if err != nil || got.ID != u.ID || got.Role != models.RoleAdmin {
		t.Fatalf("authenticate: %+v %v", got, err)
	}
	if _, err := f.users.Authenticate(ctx, "a@x.com", "nope"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("wrong password: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := f.users.Authenticate(ctx, "b@x.com", "pw"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("unknown email: expected ErrUnauthenticated, got %v", err)
	}

	_, err = f.users.Register(ctx, dto.RegisterRequest{Name: "A2", Email: "a@x.com", Password: "pw2", Role: "reader"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate email: expected ErrConflict, got %v", err)
	}
}

// recordingCredentials notes every digest a password was checked against.
type recordingCredentials struct {
	*password.Hasher
	checked []string
}

func (r *recordingCredentials) Verify(plain, digest string) bool {
	r.checked = append(r.checked, digest)
	return r.Hasher.Verify(plain, digest)
}

func TestUnknownEmailStillChecksAPassword(t *testing.T) {
	ctx := context.Background()
	gdb, err := db.Connect(db.Config{Driver: db.DriverSQLite, Path: filepath.Join(t.TempDir(), "auth.db")})
	if err != nil {
		t.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	creds := &recordingCredentials{Hasher: password.NewHasher(bcrypt.MinCost)}
	users := NewUserService(repo.NewUserRepository(gdb), creds, cache.Nop{})

	if _, err := users.Authenticate(ctx, "nobody@x.com", "pw"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(creds.checked) != 1 || creds.checked[0] != creds.Placeholder() {
		t.Fatalf("unknown email skipped the password check: %v", creds.checked)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	cases := []dto.RegisterRequest{
		{Name: "", Email: "a@x.com", Password: "pw", Role: "admin"},
		{Name: "A", Email: "not-an-email", Password: "pw", Role: "admin"},
		{Name: "A", Email: "a@x.com", Password: "", Role: "admin"},
		{Name: "A", Email: "a@x.com", Password: "pw", Role: "superuser"},
		{Name: "A", Email: "a@x.com", Password: "pw", Role: ""},
	}
	for _, req := range cases {
		if _, err := f.users.Register(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", req, err)
		}
	}
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created, err := f.users.EnsureAdmin(ctx, "root", "root@x.com", "pw")
	if err != nil || !created {
		t.Fatalf("first ensure: created=%v err=%v", created, err)
	}
	created, err = f.users.EnsureAdmin(ctx, "root", "root@x.com", "pw")
	if err != nil || created {
		t.Fatalf("second ensure: created=%v err=%v", created, err)
	}
}

func TestUserUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.register(t, "a@x.com", models.RoleAuthor)
	f.register(t, "b@x.com", models.RoleReader)

	err := f.users.Update(ctx, a.ID, dto.UpdateUserRequest{Name: "Ada", Email: "b@x.com", Role: "author"})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on taken email, got %v", err)
	}
	if err := f.users.Update(ctx, 999, dto.UpdateUserRequest{Name: "x", Email: "x@x.com", Role: "reader"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := f.users.Update(ctx, a.ID, dto.UpdateUserRequest{Name: "Ada", Email: "a@x.com", Role: "editor"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown role, got %v", err)
	}
	if err := f.users.UpdateProfile(ctx, a.ID, dto.UpdateProfileRequest{Password: "new"}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if _, err := f.users.Authenticate(ctx, "a@x.com", "new"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}

	if _, err := f.posts.Create(ctx, actorOf(a), dto.PostRequest{Title: "t", Content: "c"}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := f.users.Delete(ctx, a.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict deleting an author with posts, got %v", err)
	}

	b, err := f.users.Authenticate(ctx, "b@x.com", "pw")
	if err != nil {
		t.Fatalf("authenticate b: %v", err)
	}
	if err := f.users.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.users.Delete(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.categories.List(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty list: expected ErrNotFound, got %v", err)
	}
	c, err := f.categories.Create(ctx, " news ")
	if err != nil || c.Name != "news" {
		t.Fatalf("create: %+v %v", c, err)
	}
	if _, err := f.categories.Create(ctx, "news"); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate: expected ErrConflict, got %v", err)
	}
	if _, err := f.categories.Create(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank: expected ErrInvalidInput, got %v", err)
	}
	if err := f.categories.Update(ctx, c.ID, "world"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := f.categories.Update(ctx, c.ID+100, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: expected ErrNotFound, got %v", err)
	}
	got, err := f.categories.Get(ctx, c.ID)
	if err != nil || got.Name != "world" {
		t.Fatalf("get: %+v %v", got, err)
	}
	if err := f.categories.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.categories.Delete(ctx, c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestTagDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first, err := f.tags.Create(ctx, "go")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := f.tags.Create(ctx, "rust")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := f.tags.Update(ctx, second.ID, "go"); !errors.Is(err, ErrConflict) {
		t.Fatalf("rename onto existing: expected ErrConflict, got %v", err)
	}
	if _, err := f.tags.Get(ctx, first.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
}

func TestPostListEmptyIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.posts.List(context.Background(), repo.ViewFilter{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty table, got %v", err)
	}
	var svcErr *Error
	if !errors.As(err, &svcErr) || svcErr.Message != "No posts found" {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestPostCreateBindsAuthorAndValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.register(t, "w@x.com", models.RoleAuthor)
	cat, err := f.categories.Create(ctx, "go")
	if err != nil {
		t.Fatalf("category: %v", err)
	}

	p, err := f.posts.Create(ctx, actorOf(author), dto.PostRequest{Title: "Hello, World!", Content: "body", CategoryID: uintPtr(cat.ID)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.AuthorID != author.ID || p.Status != models.StatusDraft || p.Slug != "hello-world" {
		t.Fatalf("unexpected post: %+v", p)
	}
	if p.CreatedAt.IsZero() {
		t.Fatalf("created_at not assigned")
	}

	_, err = f.posts.Create(ctx, actorOf(author), dto.PostRequest{Title: "t", Content: "c", CategoryID: uintPtr(cat.ID + 50)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("dangling category: expected ErrInvalidInput, got %v", err)
	}
	_, err = f.posts.Create(ctx, actorOf(author), dto.PostRequest{Title: "t", Content: "c", TagID: uintPtr(9)})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("dangling tag: expected ErrInvalidInput, got %v", err)
	}
	_, err = f.posts.Create(ctx, actorOf(author), dto.PostRequest{Title: "t", Content: "c", Status: "archived"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("unknown status: expected ErrInvalidInput, got %v", err)
	}

	view, err := f.posts.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if view.AuthorName == nil || *view.AuthorName != author.Name || view.CategoryName == nil || *view.CategoryName != "go" || view.TagID != nil {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestPostOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "owner@x.com", models.RoleAuthor)
	other := f.register(t, "other@x.com", models.RoleAuthor)
	admin := f.register(t, "admin@x.com", models.RoleAdmin)

	p, err := f.posts.Create(ctx, actorOf(owner), dto.PostRequest{Title: "mine", Content: "c"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	req := dto.PostRequest{Title: "edited", Content: "c2", Status: "published"}
	if err := f.posts.Update(ctx, actorOf(other), p.ID, req); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign update: expected ErrForbidden, got %v", err)
	}
	if err := f.posts.Delete(ctx, actorOf(other), p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("foreign delete: expected ErrForbidden, got %v", err)
	}
	if err := f.posts.Update(ctx, actorOf(admin), p.ID, req); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	published, err := f.posts.List(ctx, repo.ViewFilter{Status: models.StatusPublished})
	if err != nil || len(published) != 1 || published[0].Title != "edited" {
		t.Fatalf("published: %+v %v", published, err)
	}
	if *published[0].AuthorID != owner.ID {
		t.Fatalf("author changed on update: %d", *published[0].AuthorID)
	}

	if err := f.posts.Delete(ctx, actorOf(owner), p.ID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if err := f.posts.Delete(ctx, actorOf(owner), p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	if err := f.posts.Update(ctx, actorOf(admin), p.ID, req); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update deleted: expected ErrNotFound, got %v", err)
	}
}

func TestMutationsInvalidateViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	author := f.register(t, "w@x.com", models.RoleAuthor)
	before := f.views.invalidations
	p, err := f.posts.Create(ctx, actorOf(author), dto.PostRequest{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	c, err := f.categories.Create(ctx, "go")
	if err != nil {
		t.Fatalf("category: %v", err)
	}
	if err := f.categories.Update(ctx, c.ID, "golang"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if err := f.posts.Delete(ctx, actorOf(author), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := f.views.invalidations - before; got != 3 {
		t.Fatalf("expected 3 invalidations, got %d", got)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":     "hello-world",
		"  Go 1.22 release": "go-1-22-release",
		"---":               "",
		"Ünïcode Títle":     "ünïcode-títle",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
