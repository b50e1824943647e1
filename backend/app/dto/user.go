package dto

// UpdateUserRequest replaces name, email and role. An empty password keeps
// the current one.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// UpdateProfileRequest is a partial self update; empty fields are left
// unchanged and the role cannot be changed.
type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}
