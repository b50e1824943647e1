package dto

type PostRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	CategoryID *uint  `json:"category_id"`
	TagID      *uint  `json:"tag_id"`
}

type PostCreatedResponse struct {
	Message string `json:"message"`
	PostID  uint   `json:"postId"`
}
