package controllers

import (
	"net/http"

	"blog-cms/backend/app/dto"
	jwtutil "blog-cms/backend/app/jwt"
	"blog-cms/backend/app/services"
	"blog-cms/backend/global"
)

type AuthController struct {
	Users  *services.UserService
	Signer *jwtutil.Signer
}

func NewAuthController(users *services.UserService, signer *jwtutil.Signer) *AuthController {
	return &AuthController{Users: users, Signer: signer}
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := c.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	token, err := c.Signer.Sign(u.ID, u.Name, string(u.Role))
	if err != nil {
		global.Logger.Error().Err(err).Uint("user_id", u.ID).Msg("failed to sign token")
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{Message: "Login successful", Token: token, Role: string(u.Role)})
}

// Register creates a user of any role. Routed behind the admin guard.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := c.Users.Register(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.MessageResponse{Message: "user registered successfully", ID: u.ID})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "no token provided")
		return
	}
	u, err := c.Users.Get(r.Context(), who.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": u})
}
