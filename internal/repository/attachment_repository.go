package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// AttachmentRepository reads attachment metadata. Writes happen inside the
// ticket creation transaction; attachments never exist without their ticket.
type AttachmentRepository interface {
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error)
}

type attachmentRepository struct {
	pool *pgxpool.Pool
}

// NewAttachmentRepository constructs repository.
func NewAttachmentRepository(pool *pgxpool.Pool) AttachmentRepository {
	return &attachmentRepository{pool: pool}
}

func (r *attachmentRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.Attachment, error) {
	const query = `
        SELECT id, ticket_id, file_name, file_path, mime_type, size
        FROM attachments WHERE ticket_id=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Attachment
	for rows.Next() {
		var attachment domain.Attachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.TicketID,
			&attachment.FileName,
			&attachment.FilePath,
			&attachment.MimeType,
			&attachment.Size,
		); err != nil {
			return nil, err
		}
		result = append(result, attachment)
	}
	return result, rows.Err()
}
