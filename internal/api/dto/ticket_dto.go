package dto

import (
	"time"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// CreateTicketRequest is the ticket submission payload. The category may be
// given by id or by name; email is required for anonymous submissions and
// optional otherwise (the account email is used when omitted).
type CreateTicketRequest struct {
	Title        string                   `json:"title"`
	Description  string                   `json:"description"`
	CategoryID   *int64                   `json:"category_id,omitempty"`
	CategoryName string                   `json:"category_name,omitempty"`
	Email        string                   `json:"email,omitempty"`
	Attachments  []TicketAttachmentUpload `json:"attachments,omitempty"`
}

// TicketAttachmentUpload describes one uploaded file reference.
type TicketAttachmentUpload struct {
	FileName string `json:"file_name"`
	FilePath string `json:"file_path"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// UpdateTicketStatusRequest moves a ticket to a new status.
type UpdateTicketStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// UpdateTicketRequest is a partial edit.
type UpdateTicketRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	CategoryID  *int64  `json:"category_id,omitempty"`
}

// CreateCommentRequest appends to a ticket thread.
type CreateCommentRequest struct {
	Text string `json:"text"`
}

// TicketSummary is the listing row shape.
type TicketSummary struct {
	ID                int64               `json:"id"`
	Title             string              `json:"title"`
	Status            domain.TicketStatus `json:"status"`
	CategoryID        *int64              `json:"category_id,omitempty"`
	CategoryName      *string             `json:"category_name,omitempty"`
	ClaimedBy         *int64              `json:"claimed_by,omitempty"`
	ClaimedByUsername *string             `json:"claimed_by_username,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// TicketDetailResponse is the single-ticket shape including the comment
// thread and attachment metadata.
type TicketDetailResponse struct {
	ID                int64                `json:"id"`
	Title             string               `json:"title"`
	Description       string               `json:"description"`
	Status            domain.TicketStatus  `json:"status"`
	Email             string               `json:"email"`
	UserID            *int64               `json:"user_id,omitempty"`
	CategoryID        *int64               `json:"category_id,omitempty"`
	CategoryName      *string              `json:"category_name,omitempty"`
	ClaimedBy         *int64               `json:"claimed_by,omitempty"`
	ClaimedByUsername *string              `json:"claimed_by_username,omitempty"`
	CreatedAt         time.Time            `json:"created_at"`
	Comments          []CommentResponse    `json:"comments"`
	Attachments       []AttachmentResponse `json:"attachments"`
}

// CommentResponse is one thread entry.
type CommentResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	AuthorUsername *string   `json:"author_username,omitempty"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

// AttachmentResponse is one attachment's metadata.
type AttachmentResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	Size     int64  `json:"size"`
}

// CreateCategoryRequest names a new category.
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse is the category shape.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
