package domain

// Attachment stores uploaded-file metadata bound to a ticket. Rows are
// removed with their ticket (cascade at the persistence layer).
type Attachment struct {
	ID       int64
	TicketID int64
	FileName string
	FilePath string
	MimeType string
	Size     int64
}
