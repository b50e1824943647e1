package controllers

import (
	"net/http"

	"blog-cms/backend/app/dto"
	"blog-cms/backend/app/services"
)

type TagController struct{ Tags *services.TagService }

func NewTagController(tags *services.TagService) *TagController {
	return &TagController{Tags: tags}
}

func (c *TagController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.Tags.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tags": items})
}

func (c *TagController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	item, err := c.Tags.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tag": item})
}

func (c *TagController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.NameRequest
	if !decode(w, r, &req) {
		return
	}
	item, err := c.Tags.Create(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "tag created successfully", ID: item.ID})
}

func (c *TagController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.NameRequest
	if !decode(w, r, &req) {
		return
	}
	if err := c.Tags.Update(r.Context(), id, req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "tag updated successfully"})
}

func (c *TagController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Tags.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "tag deleted successfully"})
}
