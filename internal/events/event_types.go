package events

import (
	"time"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketClosed        EventType = "ticket_closed"
	EventTicketClaimed       EventType = "ticket_claimed"
	EventCommentAdded        EventType = "ticket_comment_added"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   *int64      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title          string `json:"title"`
	SubmitterEmail string `json:"submitter_email"`
	CategoryID     *int64 `json:"category_id,omitempty"`
	Anonymous      bool   `json:"anonymous"`
}

// TicketStatusChangedPayload payload. RecipientEmail is the submitter
// contact, set for anonymous tickets too.
type TicketStatusChangedPayload struct {
	Title          string              `json:"title"`
	OldStatus      domain.TicketStatus `json:"old_status"`
	NewStatus      domain.TicketStatus `json:"new_status"`
	RecipientEmail string              `json:"recipient_email"`
	RecipientUser  *int64              `json:"recipient_user,omitempty"`
}

// TicketClosedPayload payload for the closure-specific message.
type TicketClosedPayload struct {
	Title          string `json:"title"`
	RecipientEmail string `json:"recipient_email"`
	RecipientUser  *int64 `json:"recipient_user,omitempty"`
}

// TicketClaimedPayload payload.
type TicketClaimedPayload struct {
	ClaimedBy int64 `json:"claimed_by"`
}

// CommentAddedPayload payload.
type CommentAddedPayload struct {
	CommentID int64 `json:"comment_id"`
	AuthorID  int64 `json:"author_id"`
}
