package dto

import "time"

// ArticleRequest is the create/update payload for a knowledge base article.
type ArticleRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	CategoryID *int64 `json:"category_id,omitempty"`
}

// ArticleResponse is the article shape.
type ArticleResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID *int64    `json:"category_id,omitempty"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}
