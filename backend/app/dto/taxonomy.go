package dto

type NameRequest struct {
	Name string `json:"name"`
}
