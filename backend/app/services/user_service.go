package services

import (
	"context"
	"errors"
	"strings"

	"blog-cms/backend/app/cache"
	"blog-cms/backend/app/dto"
	"blog-cms/backend/app/models"
	"blog-cms/backend/app/password"
	"blog-cms/backend/app/repo"
)

// Credentials hashes and checks passwords. *password.Hasher implements it.
type Credentials interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) bool
	Placeholder() string
}

type UserService struct {
	users  *repo.UserRepository
	hasher Credentials
	views  cache.Views
}

func NewUserService(users *repo.UserRepository, hasher Credentials, views cache.Views) *UserService {
	return &UserService{users: users, hasher: hasher, views: views}
}

// EnsureAdmin creates an admin with the given email unless one exists.
// It reports whether a user was created.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, plain string) (bool, error) {
	existing, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}
	_, err = s.Register(ctx, dto.RegisterRequest{Name: name, Email: email, Password: plain, Role: string(models.RoleAdmin)})
	if errors.Is(err, ErrConflict) {
		return false, nil
	}
	return err == nil, err
}

func (s *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, fail(ErrInvalidInput, "name, email and password are required")
	}
	if !validEmail(email) {
		return nil, fail(ErrInvalidInput, "invalid email")
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, fail(ErrInvalidInput, "role must be one of admin, author, reader")
	}
	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fail(ErrConflict, "user already exists")
		}
		return nil, err
	}
	return u, nil
}

// Authenticate returns the user owning email when plain matches the stored
// digest. Unknown email and wrong password are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, email, plain string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || plain == "" {
		return nil, fail(ErrInvalidInput, "email and password are required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	digest := s.hasher.Placeholder()
	if u != nil {
		digest = u.PasswordHash
	}
	if !s.hasher.Verify(plain, digest) || u == nil {
		return nil, fail(ErrUnauthenticated, "invalid email or password")
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fail(ErrNotFound, "no users found")
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fail(ErrNotFound, "user not found")
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, req dto.UpdateUserRequest) error {
	name := strings.TrimSpace(req.Name)
	email := normalizeEmail(req.Email)
	if name == "" || email == "" {
		return fail(ErrInvalidInput, "name and email are required")
	}
	if !validEmail(email) {
		return fail(ErrInvalidInput, "invalid email")
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		return fail(ErrInvalidInput, "role must be one of admin, author, reader")
	}
	updates := map[string]any{"name": name, "email": email, "role": role}
	if req.Password != "" {
		hash, err := s.hash(req.Password)
		if err != nil {
			return err
		}
		updates["password"] = hash
	}
	return s.apply(ctx, id, updates)
}

// UpdateProfile applies a self update. The caller's role is never touched.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, req dto.UpdateProfileRequest) error {
	updates := map[string]any{}
	if name := strings.TrimSpace(req.Name); name != "" {
		updates["name"] = name
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if !validEmail(email) {
			return fail(ErrInvalidInput, "invalid email")
		}
		updates["email"] = email
	}
	if req.Password != "" {
		hash, err := s.hash(req.Password)
		if err != nil {
			return err
		}
		updates["password"] = hash
	}
	if len(updates) == 0 {
		return fail(ErrInvalidInput, "nothing to update")
	}
	return s.apply(ctx, id, updates)
}

func (s *UserService) apply(ctx context.Context, id uint, updates map[string]any) error {
	found, err := s.users.Update(ctx, id, updates)
	if errors.Is(err, repo.ErrDuplicate) {
		return fail(ErrConflict, "email already in use")
	}
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "user not found")
	}
	invalidate(ctx, s.views)
	return nil
}

// Delete removes a user. Users that still author posts are kept; their posts
// must be deleted or reassigned first.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	owned, err := s.users.CountPosts(ctx, id)
	if err != nil {
		return err
	}
	if owned > 0 {
		return fail(ErrConflict, "user still authors %d posts", owned)
	}
	found, err := s.users.Delete(ctx, id)
	if errors.Is(err, repo.ErrForeignKey) {
		return fail(ErrConflict, "user still authors posts")
	}
	if err != nil {
		return err
	}
	if !found {
		return fail(ErrNotFound, "user not found")
	}
	invalidate(ctx, s.views)
	return nil
}

func (s *UserService) hash(plain string) (string, error) {
	hash, err := s.hasher.Hash(plain)
	if errors.Is(err, password.ErrTooLong) {
		return "", fail(ErrInvalidInput, "password must be at most 72 bytes")
	}
	return hash, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}
