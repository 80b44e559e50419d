package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/AIlhomov/Ticketing-System/internal/api/dto"
	"github.com/AIlhomov/Ticketing-System/internal/auth"
	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/service"
	apperrors "github.com/AIlhomov/Ticketing-System/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket lifecycle over HTTP.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets. Auth is optional here: an anonymous submission
// must carry a contact email, a signed-in one defaults to the account email.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.CreateTicketInput{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		CategoryName: req.CategoryName,
		Email:        req.Email,
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		input.UserID = &principal.ID
		if input.Email == "" {
			input.Email = principal.Email
		}
	}
	for _, att := range req.Attachments {
		input.Attachments = append(input.Attachments, service.AttachmentInput{
			FileName: att.FileName,
			FilePath: att.FilePath,
			MimeType: att.MimeType,
			Size:     att.Size,
		})
	}

	ticket, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ListTickets GET /tickets. Staff see every ticket; users see their own.
// Supports ?sort= and ?order= query parameters.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.List(c.UserContext(), principal, c.Query("sort"), c.Query("order"))
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ticket, comments, attachments, err := h.service.Get(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketDetail(ticket, comments, attachments)})
}

// UpdateStatus PATCH /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), principal, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// CloseTicket POST /tickets/:id/close.
func (h *TicketsHandler) CloseTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Close(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// ClaimTicket POST /tickets/:id/claim.
func (h *TicketsHandler) ClaimTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Claim(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.Update(c.UserContext(), principal, id, service.UpdateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketSummary(ticket)})
}

// AddComment POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	comment, err := h.service.AddComment(c.UserContext(), principal, id, req.Text)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": commentResponse(comment)})
}

func requirePrincipal(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", nil)
	}
	return id, nil
}

func ticketSummary(ticket *domain.Ticket) dto.TicketSummary {
	return dto.TicketSummary{
		ID:                ticket.ID,
		Title:             ticket.Title,
		Status:            ticket.Status,
		CategoryID:        ticket.CategoryID,
		CategoryName:      ticket.CategoryName,
		ClaimedBy:         ticket.ClaimedBy,
		ClaimedByUsername: ticket.ClaimedByUsername,
		CreatedAt:         ticket.CreatedAt,
	}
}

func ticketDetail(ticket *domain.Ticket, comments []domain.Comment, attachments []domain.Attachment) dto.TicketDetailResponse {
	commentItems := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		commentItems = append(commentItems, commentResponse(&comments[i]))
	}
	attachmentItems := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, att := range attachments {
		attachmentItems = append(attachmentItems, dto.AttachmentResponse{
			ID:       att.ID,
			FileName: att.FileName,
			MimeType: att.MimeType,
			Size:     att.Size,
		})
	}
	return dto.TicketDetailResponse{
		ID:                ticket.ID,
		Title:             ticket.Title,
		Description:       ticket.Description,
		Status:            ticket.Status,
		Email:             ticket.Email,
		UserID:            ticket.UserID,
		CategoryID:        ticket.CategoryID,
		CategoryName:      ticket.CategoryName,
		ClaimedBy:         ticket.ClaimedBy,
		ClaimedByUsername: ticket.ClaimedByUsername,
		CreatedAt:         ticket.CreatedAt,
		Comments:          commentItems,
		Attachments:       attachmentItems,
	}
}

func commentResponse(comment *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:             comment.ID,
		UserID:         comment.UserID,
		AuthorUsername: comment.AuthorUsername,
		Text:           comment.Text,
		CreatedAt:      comment.CreatedAt,
	}
}
