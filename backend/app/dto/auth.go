package dto

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// MessageResponse is the body of every non-read outcome. ID is set when a
// row was created.
type MessageResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id,omitempty"`
}
