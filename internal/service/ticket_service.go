package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/AIlhomov/Ticketing-System/internal/access"
	"github.com/AIlhomov/Ticketing-System/internal/config"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/events"
	"github.com/AIlhomov/Ticketing-System/internal/repository"
	"github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// TicketService owns the ticket lifecycle: creation, status transitions,
// claiming, comments, edits, and role-scoped queries. Authorization runs
// through the access policy; persistence through the repositories.
type TicketService struct {
	tickets     repository.TicketRepository
	categories  repository.CategoryRepository
	attachments repository.AttachmentRepository
	comments    repository.CommentRepository
	dispatcher  events.Dispatcher
	uploads     config.UploadConfig
	claimPolicy config.ClaimPolicy
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo     repository.TicketRepository
	CategoryRepo   repository.CategoryRepository
	AttachmentRepo repository.AttachmentRepository
	CommentRepo    repository.CommentRepository
	Dispatcher     events.Dispatcher
	Uploads        config.UploadConfig
	ClaimPolicy    config.ClaimPolicy
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:     deps.TicketRepo,
		categories:  deps.CategoryRepo,
		attachments: deps.AttachmentRepo,
		comments:    deps.CommentRepo,
		dispatcher:  deps.Dispatcher,
		uploads:     deps.Uploads,
		claimPolicy: deps.ClaimPolicy,
	}
}

// AttachmentInput describes an uploaded file bound to a new ticket.
type AttachmentInput struct {
	FileName string
	FilePath string
	MimeType string
	Size     int64
}

// CreateTicketInput describes the ticket creation payload. Exactly one of
// CategoryID and CategoryName may be set: an id must already exist, a name is
// looked up and created on demand. UserID is nil for anonymous submissions;
// Email is required either way.
type CreateTicketInput struct {
	Title        string
	Description  string
	CategoryID   *int64
	CategoryName string
	Email        string
	UserID       *int64
	Attachments  []AttachmentInput
}

// UpdateTicketInput is a partial edit. Title and description only apply for
// admin editors; the category applies for any authorized editor.
type UpdateTicketInput struct {
	Title       *string
	Description *string
	CategoryID  *int64
}

// Create validates and persists a new ticket with its attachments as one
// atomic unit. No notification fires on creation.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	email := strings.TrimSpace(input.Email)
	if title == "" || description == "" {
		return nil, errorutil.NewValidationError("title and description required", nil)
	}
	if email == "" {
		return nil, errorutil.NewValidationError("submitter email required", nil)
	}
	if err := s.validateAttachments(input.Attachments); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, input.CategoryID, input.CategoryName)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		CategoryID:  categoryID,
		Email:       email,
		UserID:      input.UserID,
		Status:      domain.TicketStatusOpen,
	}

	attachments := make([]domain.Attachment, 0, len(input.Attachments))
	for _, att := range input.Attachments {
		attachments = append(attachments, domain.Attachment{
			FileName: att.FileName,
			FilePath: att.FilePath,
			MimeType: att.MimeType,
			Size:     att.Size,
		})
	}

	if err := s.tickets.CreateWithAttachments(ctx, ticket, attachments); err != nil {
		if errors.Is(err, repository.ErrAttachmentInsert) {
			return nil, errorutil.NewAttachmentError("failed to store attachments", nil)
		}
		return nil, errorutil.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  ticket.UserID,
		Payload: events.TicketCreatedPayload{
			Title:          ticket.Title,
			SubmitterEmail: ticket.Email,
			CategoryID:     ticket.CategoryID,
			Anonymous:      ticket.UserID == nil,
		},
	})
	return ticket, nil
}

// resolveCategory turns a category reference into a category id. An explicit
// id must exist; a name is reused when present and created otherwise. The
// lookup-or-create is race-free at the persistence layer.
func (s *TicketService) resolveCategory(ctx context.Context, id *int64, name string) (*int64, error) {
	if id != nil {
		if _, err := s.categories.GetByID(ctx, *id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewValidationError("category does not exist", map[string]any{"category_id": *id})
			}
			return nil, errorutil.MapError(err)
		}
		return id, nil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	category, err := s.categories.LookupOrCreate(ctx, name)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return &category.ID, nil
}

func (s *TicketService) validateAttachments(attachments []AttachmentInput) error {
	if len(attachments) > s.uploads.MaxFiles {
		return errorutil.NewAttachmentError("too many files", map[string]any{"max_files": s.uploads.MaxFiles})
	}
	for _, att := range attachments {
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(att.FileName)), ".")
		if !s.extensionAllowed(ext) {
			return errorutil.NewAttachmentError("file type not supported", map[string]any{"file_name": att.FileName})
		}
		if att.Size <= 0 || att.Size > s.uploads.MaxFileSizeBytes {
			return errorutil.NewAttachmentError("file exceeds size limit", map[string]any{
				"file_name": att.FileName,
				"max_bytes": s.uploads.MaxFileSizeBytes,
			})
		}
	}
	return nil
}

func (s *TicketService) extensionAllowed(ext string) bool {
	for _, allowed := range s.uploads.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UpdateStatus moves a ticket to any of the known states; the engine imposes
// no transition ordering, closed tickets reopen freely. A status-change
// notification fires on every transition; delivery failure never affects the
// durable status change.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID int64, newStatus domain.TicketStatus) (*domain.Ticket, error) {
	if actor == nil {
		return nil, errorutil.NewUnauthorized("authentication required")
	}
	if !access.Allowed(actor.Role, access.OpUpdateStatus) {
		return nil, errorutil.NewForbidden("insufficient role for status update")
	}
	if !newStatus.Valid() {
		return nil, errorutil.NewValidationError("unknown ticket status", map[string]any{"status": newStatus})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, errorutil.MapError(err)
	}

	oldStatus := ticket.Status
	if err := s.tickets.UpdateStatus(ctx, ticketID, newStatus); err != nil {
		return nil, errorutil.MapError(err)
	}
	ticket.Status = newStatus

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		ActorID:  &actor.ID,
		Payload: events.TicketStatusChangedPayload{
			Title:          ticket.Title,
			OldStatus:      oldStatus,
			NewStatus:      newStatus,
			RecipientEmail: ticket.Email,
			RecipientUser:  ticket.UserID,
		},
	})
	return ticket, nil
}

// Close sets status to closed and additionally sends the closure-specific
// message. Both the generic status-change and the closure notification fire
// for a close.
func (s *TicketService) Close(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.UpdateStatus(ctx, actor, ticketID, domain.TicketStatusClosed)
	if err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClosed,
		TicketID: ticket.ID,
		ActorID:  &actor.ID,
		Payload: events.TicketClosedPayload{
			Title:          ticket.Title,
			RecipientEmail: ticket.Email,
			RecipientUser:  ticket.UserID,
		},
	})
	return ticket, nil
}

// Claim assigns the ticket to the acting staff member. Under the overwrite
// policy the write is unconditional (last writer wins); under compare_and_set
// a ticket already held by someone else yields a conflict. Claiming never
// changes status.
func (s *TicketService) Claim(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, error) {
	if actor == nil {
		return nil, errorutil.NewUnauthorized("authentication required")
	}
	if !access.Allowed(actor.Role, access.OpClaimTicket) {
		return nil, errorutil.NewForbidden("only agents and admins may claim tickets")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, errorutil.MapError(err)
	}

	cas := s.claimPolicy == config.ClaimPolicyCompareAndSet
	if err := s.tickets.Claim(ctx, ticketID, actor.ID, cas); err != nil {
		if errors.Is(err, pgx.ErrNoRows) && cas {
			return nil, errorutil.NewConflict("ticket already claimed", map[string]any{"claimed_by": ticket.ClaimedBy})
		}
		return nil, errorutil.MapError(err)
	}
	ticket.ClaimedBy = &actor.ID
	ticket.ClaimedByUsername = &actor.Username

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketClaimed,
		TicketID: ticket.ID,
		ActorID:  &actor.ID,
		Payload:  events.TicketClaimedPayload{ClaimedBy: actor.ID},
	})
	return ticket, nil
}

// AddComment appends to the ticket thread. Users comment on their own
// tickets, agents on tickets they claimed, admins anywhere.
func (s *TicketService) AddComment(ctx context.Context, actor *domain.User, ticketID int64, text string) (*domain.Comment, error) {
	if actor == nil {
		return nil, errorutil.NewUnauthorized("authentication required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errorutil.NewValidationError("comment text required", nil)
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, errorutil.MapError(err)
	}
	if !access.CanComment(actor, ticket) {
		return nil, errorutil.NewForbidden("not allowed to comment on this ticket")
	}

	comment := &domain.Comment{
		TicketID: ticket.ID,
		UserID:   actor.ID,
		Text:     text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, errorutil.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:     events.EventCommentAdded,
		TicketID: ticket.ID,
		ActorID:  &actor.ID,
		Payload:  events.CommentAddedPayload{CommentID: comment.ID, AuthorID: actor.ID},
	})
	return comment, nil
}

// Update applies a partial edit. The category change applies for any
// authorized editor; title and description apply only when the editor is an
// admin and are silently dropped otherwise.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID int64, input UpdateTicketInput) (*domain.Ticket, error) {
	if actor == nil {
		return nil, errorutil.NewUnauthorized("authentication required")
	}
	if !access.Allowed(actor.Role, access.OpEditTicket) {
		return nil, errorutil.NewForbidden("insufficient role for ticket edit")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, errorutil.MapError(err)
	}

	if input.CategoryID != nil {
		if _, err := s.categories.GetByID(ctx, *input.CategoryID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, errorutil.NewValidationError("category does not exist", map[string]any{"category_id": *input.CategoryID})
			}
			return nil, errorutil.MapError(err)
		}
		ticket.CategoryID = input.CategoryID
	}

	fields := access.FieldsForRole(actor.Role)
	if fields.TitleDescription {
		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return nil, errorutil.NewValidationError("title cannot be empty", nil)
			}
			ticket.Title = title
		}
		if input.Description != nil {
			description := strings.TrimSpace(*input.Description)
			if description == "" {
				return nil, errorutil.NewValidationError("description cannot be empty", nil)
			}
			ticket.Description = description
		}
	}

	if err := s.tickets.UpdateFields(ctx, ticket); err != nil {
		return nil, errorutil.MapError(err)
	}
	return ticket, nil
}

// List returns tickets visible to the viewer: staff see everything with
// claimant and category joined in, users only their own submissions. The sort
// key is validated against the repository allow-list and falls back to id.
func (s *TicketService) List(ctx context.Context, viewer *domain.User, sort, order string) ([]domain.Ticket, error) {
	if viewer == nil {
		return nil, errorutil.NewUnauthorized("authentication required")
	}

	opts := repository.TicketListOptions{
		Sort:  sort,
		Order: normalizeOrder(order),
	}
	if !access.Allowed(viewer.Role, access.OpListAllTickets) {
		opts.UserID = &viewer.ID
	}

	tickets, err := s.tickets.List(ctx, opts)
	if err != nil {
		return nil, errorutil.MapError(err)
	}
	return tickets, nil
}

// Get fetches a single ticket with its comment thread and attachments,
// enforcing role-scoped visibility.
func (s *TicketService) Get(ctx context.Context, viewer *domain.User, ticketID int64) (*domain.Ticket, []domain.Comment, []domain.Attachment, error) {
	if viewer == nil {
		return nil, nil, nil, errorutil.NewUnauthorized("authentication required")
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, nil, nil, errorutil.MapError(err)
	}
	if !access.CanViewTicket(viewer, ticket) {
		return nil, nil, nil, errorutil.NewForbidden("not allowed to view this ticket")
	}

	comments, err := s.comments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, errorutil.MapError(err)
	}
	attachments, err := s.attachments.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, nil, errorutil.MapError(err)
	}
	return ticket, comments, attachments, nil
}

func normalizeOrder(order string) repository.SortOrder {
	if strings.EqualFold(order, "desc") {
		return repository.SortDesc
	}
	return repository.SortAsc
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
