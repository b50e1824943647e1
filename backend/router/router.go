package router

import (
	"net/http"

	"blog-cms/backend/app/controllers"
	"blog-cms/backend/app/middleware"
	"blog-cms/backend/app/models"
)

type Controllers struct {
	Auth       *controllers.AuthController
	Users      *controllers.UserController
	Categories *controllers.CategoryController
	Tags       *controllers.TagController
	Posts      *controllers.PostController
}

func NewRouter(c Controllers, mw *middleware.Auth) http.Handler {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc, guards ...middleware.Guard) {
		mux.Handle(pattern, middleware.WithRoute(pattern, middleware.Chain(h, guards...)))
	}
	authed := []middleware.Guard{mw.RequireAuth}
	admin := []middleware.Guard{mw.RequireAdmin}
	writer := []middleware.Guard{mw.RequireAuth, middleware.RequireRole(models.RoleAdmin, models.RoleAuthor)}

	// auth
	handle("POST /api/auth/login", c.Auth.Login)
	handle("POST /api/auth/register", c.Auth.Register, admin...)
	handle("GET /api/auth/me", c.Auth.Me, authed...)

	// users
	handle("GET /api/users/me", c.Auth.Me, authed...)
	handle("PUT /api/users/me", c.Users.UpdateMe, authed...)
	handle("GET /api/users", c.Users.List, admin...)
	handle("GET /api/users/{id}", c.Users.Get, admin...)
	handle("PUT /api/users/{id}", c.Users.Update, admin...)
	handle("DELETE /api/users/{id}", c.Users.Delete, admin...)

	// categories
	handle("GET /api/categories", c.Categories.List, admin...)
	handle("POST /api/categories", c.Categories.Create, admin...)
	handle("GET /api/categories/{id}", c.Categories.Get, admin...)
	handle("PUT /api/categories/{id}", c.Categories.Update, admin...)
	handle("DELETE /api/categories/{id}", c.Categories.Delete, admin...)

	// tags
	handle("GET /api/tags", c.Tags.List, admin...)
	handle("POST /api/tags", c.Tags.Create, admin...)
	handle("GET /api/tags/{id}", c.Tags.Get, admin...)
	handle("PUT /api/tags/{id}", c.Tags.Update, admin...)
	handle("DELETE /api/tags/{id}", c.Tags.Delete, admin...)

	// posts: reads are public
	handle("GET /api/posts", c.Posts.List)
	handle("GET /api/posts/published", c.Posts.Published)
	handle("GET /api/posts/author/{authorId}", c.Posts.ByAuthor)
	handle("GET /api/posts/category/{categoryId}", c.Posts.ByCategory)
	handle("GET /api/posts/{id}", c.Posts.Get)
	handle("POST /api/posts", c.Posts.Create, writer...)
	handle("PUT /api/posts/{id}", c.Posts.Update, writer...)
	handle("DELETE /api/posts/{id}", c.Posts.Delete, writer...)

	return mux
}
