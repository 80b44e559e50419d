package domain

import "time"

// Article is a knowledge base entry maintained by staff.
type Article struct {
	ID         int64
	Title      string
	Content    string
	CategoryID *int64
	CreatedBy  int64
	CreatedAt  time.Time
}
