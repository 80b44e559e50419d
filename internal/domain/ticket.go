package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusClosed     TicketStatus = "closed"
)

// Valid reports whether the status is a known value. Any transition among
// valid states is permitted; rejection is a policy-layer decision.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusClosed:
		return true
	}
	return false
}

// Ticket is the aggregate for a support request. Email is always set, also
// for anonymous submissions; UserID is nil when the submitter was not signed
// in. ClaimedBy, when set, references a staff account.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	CategoryID  *int64
	Email       string
	UserID      *int64
	Status      TicketStatus
	ClaimedBy   *int64
	CreatedAt   time.Time

	// Joined in by listing queries for staff views.
	CategoryName      *string
	ClaimedByUsername *string
}
