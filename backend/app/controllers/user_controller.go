package controllers

import (
	"net/http"

	"blog-cms/backend/app/dto"
	"blog-cms/backend/app/services"
)

type UserController struct{ Users *services.UserService }

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	users, err := c.Users.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (c *UserController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	u, err := c.Users.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !decode(w, r, &req) {
		return
	}
	if err := c.Users.Update(r.Context(), id, req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "user updated successfully"})
}

// UpdateMe lets any authenticated user edit their own name, email and
// password.
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	var req dto.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	if err := c.Users.UpdateProfile(r.Context(), who.ID, req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "profile updated successfully"})
}

func (c *UserController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := c.Users.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "user deleted successfully"})
}
