package controllers

import (
	"net/http"

	"blog-cms/backend/app/dto"
	"blog-cms/backend/app/models"
	"blog-cms/backend/app/repo"
	"blog-cms/backend/app/services"
)

type PostController struct{ Posts *services.PostService }

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{Posts: posts}
}

func (c *PostController) List(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, repo.ViewFilter{})
}

func (c *PostController) Published(w http.ResponseWriter, r *http.Request) {
	c.list(w, r, repo.ViewFilter{Status: models.StatusPublished})
}

func (c *PostController) ByAuthor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "authorId")
	if !ok {
		return
	}
	c.list(w, r, repo.ViewFilter{AuthorID: id})
}

func (c *PostController) ByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}
	c.list(w, r, repo.ViewFilter{CategoryID: id})
}

func (c *PostController) list(w http.ResponseWriter, r *http.Request, f repo.ViewFilter) {
	views, err := c.Posts.List(r.Context(), f)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (c *PostController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	view, err := c.Posts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (c *PostController) Create(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	var req dto.PostRequest
	if !decode(w, r, &req) {
		return
	}
	p, err := c.Posts.Create(r.Context(), who, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.PostCreatedResponse{Message: "Post created successfully", PostID: p.ID})
}

func (c *PostController) Update(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.PostRequest
	if !decode(w, r, &req) {
		return
	}
	if err := c.Posts.Update(r.Context(), who, id, req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Post updated successfully"})
}

func (c *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Posts.Delete(r.Context(), who, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Post deleted successfully"})
}
