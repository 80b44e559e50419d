package domain

import "time"

// Comment is an append-only thread entry on a ticket. Displayed ascending by
// creation time; no edit or delete.
type Comment struct {
	ID        int64
	TicketID  int64
	UserID    int64
	Text      string
	CreatedAt time.Time

	// Joined in for display.
	AuthorUsername *string
}
