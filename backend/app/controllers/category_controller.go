package controllers

import (
	"net/http"

	"blog-cms/backend/app/dto"
	"blog-cms/backend/app/services"
)

type CategoryController struct{ Categories *services.CategoryService }

func NewCategoryController(categories *services.CategoryService) *CategoryController {
	return &CategoryController{Categories: categories}
}

func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.Categories.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": items})
}

func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := c.Categories.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category": item})
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := c.Categories.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "category created successfully", ID: item.ID})
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.NameRequest
	if !decode(w, r, &req) {
		return
	}
	if err := c.Categories.Update(r.Context(), id, req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "category updated successfully"})
}

func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Categories.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "category deleted successfully"})
}
