package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
)

// ErrAttachmentInsert marks a failure while persisting attachment rows
// during ticket creation; the enclosing transaction is rolled back, so the
// ticket row never survives the failure.
var ErrAttachmentInsert = errors.New("attachment insert failed")

// SortOrder restricts ordering direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// sortColumns is the allow-list of sortable columns. Caller-supplied sort
// keys are resolved through this map and never interpolated into SQL;
// anything unrecognized falls back to id.
var sortColumns = map[string]string{
	"id":                  "t.id",
	"title":               "t.title",
	"status":              "t.status",
	"created_at":          "t.created_at",
	"category_name":       "c.name",
	"claimed_by_username": "u.username",
}

// orderClause builds a safe ORDER BY expression from caller input.
func orderClause(sort string, order SortOrder) string {
	column, ok := sortColumns[sort]
	if !ok {
		column = "t.id"
	}
	direction := "ASC"
	if order == SortDesc {
		direction = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}

// TicketListOptions captures listing parameters. UserID, when set, restricts
// results to tickets submitted by that user.
type TicketListOptions struct {
	UserID *int64
	Sort   string
	Order  SortOrder
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	// CreateWithAttachments inserts the ticket and all attachment rows in a
	// single transaction; either everything lands or nothing does.
	CreateWithAttachments(ctx context.Context, ticket *domain.Ticket, attachments []domain.Attachment) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, opts TicketListOptions) ([]domain.Ticket, error)
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	UpdateFields(ctx context.Context, ticket *domain.Ticket) error
	// Claim sets claimed_by. With cas the update only applies when the ticket
	// is unclaimed or already held by the same user; pgx.ErrNoRows signals a
	// lost compare-and-set.
	Claim(ctx context.Context, id, userID int64, cas bool) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) CreateWithAttachments(ctx context.Context, ticket *domain.Ticket, attachments []domain.Attachment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insertTicket = `
        INSERT INTO tickets (title, description, category_id, email, user_id, status, claimed_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insertTicket,
		ticket.Title,
		ticket.Description,
		ticket.CategoryID,
		ticket.Email,
		ticket.UserID,
		ticket.Status,
		ticket.ClaimedBy,
	).Scan(&ticket.ID, &ticket.CreatedAt); err != nil {
		return err
	}

	if len(attachments) > 0 {
		batch := &pgx.Batch{}
		const insertAttachment = `
            INSERT INTO attachments (ticket_id, file_name, file_path, mime_type, size)
            VALUES ($1,$2,$3,$4,$5)
            RETURNING id`
		for i := range attachments {
			attachments[i].TicketID = ticket.ID
			batch.Queue(insertAttachment,
				attachments[i].TicketID,
				attachments[i].FileName,
				attachments[i].FilePath,
				attachments[i].MimeType,
				attachments[i].Size,
			)
		}
		results := tx.SendBatch(ctx, batch)
		for i := range attachments {
			if err := results.QueryRow().Scan(&attachments[i].ID); err != nil {
				_ = results.Close()
				return fmt.Errorf("%w: %v", ErrAttachmentInsert, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("%w: %v", ErrAttachmentInsert, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	const query = `
        SELECT t.id, t.title, t.description, t.category_id, t.email, t.user_id,
               t.status, t.claimed_by, t.created_at, c.name, u.username
        FROM tickets t
        LEFT JOIN categories c ON c.id = t.category_id
        LEFT JOIN users u ON u.id = t.claimed_by
        WHERE t.id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.CategoryID,
		&ticket.Email,
		&ticket.UserID,
		&ticket.Status,
		&ticket.ClaimedBy,
		&ticket.CreatedAt,
		&ticket.CategoryName,
		&ticket.ClaimedByUsername,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, opts TicketListOptions) ([]domain.Ticket, error) {
	base := `
        SELECT t.id, t.title, t.description, t.category_id, t.email, t.user_id,
               t.status, t.claimed_by, t.created_at, c.name, u.username
        FROM tickets t
        LEFT JOIN categories c ON c.id = t.category_id
        LEFT JOIN users u ON u.id = t.claimed_by`

	args := []any{}
	where := ""
	if opts.UserID != nil {
		args = append(args, *opts.UserID)
		where = fmt.Sprintf(" WHERE t.user_id=$%d", len(args))
	}

	query := base + where + " " + orderClause(opts.Sort, opts.Order)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE tickets SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) UpdateFields(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, category_id=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.CategoryID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) Claim(ctx context.Context, id, userID int64, cas bool) error {
	query := `UPDATE tickets SET claimed_by=$1 WHERE id=$2`
	if cas {
		query += ` AND (claimed_by IS NULL OR claimed_by=$1)`
	}
	cmd, err := r.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.CategoryID,
			&ticket.Email,
			&ticket.UserID,
			&ticket.Status,
			&ticket.ClaimedBy,
			&ticket.CreatedAt,
			&ticket.CategoryName,
			&ticket.ClaimedByUsername,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
