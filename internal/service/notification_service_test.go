package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AIlhomov/Ticketing-System/internal/domain"
	"github.com/AIlhomov/Ticketing-System/internal/events"
)

func TestClosingTicketSendsTwoEmails(t *testing.T) {
	tickets := &mockTicketRepo{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Title: "broken laptop", Email: "owner@example.com", Status: domain.TicketStatusInProgress}, nil
		},
		UpdateStatusFn: func(context.Context, int64, domain.TicketStatus) error { return nil },
	}
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{}
	NewNotificationService(dispatcher, mailer, nil, zap.NewNop()).RegisterHandlers()
	svc := newTicketService(tickets, &mockCategoryRepo{}, dispatcher, "")

	_, err := svc.Close(context.Background(), staffUser(1, domain.RoleAdmin), 5)
	require.NoError(t, err)

	// One email for the status change plus the closure-specific one.
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "owner@example.com", mailer.sent[0].To)
	assert.Equal(t, "owner@example.com", mailer.sent[1].To)
	assert.NotEqual(t, mailer.sent[0].Subject, mailer.sent[1].Subject)
}

func TestStatusChangeSendsSingleEmail(t *testing.T) {
	tickets := &mockTicketRepo{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Title: "broken laptop", Email: "owner@example.com", Status: domain.TicketStatusOpen}, nil
		},
		UpdateStatusFn: func(context.Context, int64, domain.TicketStatus) error { return nil },
	}
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{}
	NewNotificationService(dispatcher, mailer, nil, zap.NewNop()).RegisterHandlers()
	svc := newTicketService(tickets, &mockCategoryRepo{}, dispatcher, "")

	_, err := svc.UpdateStatus(context.Background(), staffUser(1, domain.RoleAgent), 5, domain.TicketStatusInProgress)
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Contains(t, mailer.sent[0].Body, "open")
	assert.Contains(t, mailer.sent[0].Body, "in_progress")
}

func TestMailFailureDoesNotBlockStatusChange(t *testing.T) {
	updated := false
	tickets := &mockTicketRepo{
		GetByIDFn: func(_ context.Context, id int64) (*domain.Ticket, error) {
			return &domain.Ticket{ID: id, Title: "t", Email: "owner@example.com", Status: domain.TicketStatusOpen}, nil
		},
		UpdateStatusFn: func(context.Context, int64, domain.TicketStatus) error {
			updated = true
			return nil
		},
	}
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{err: errors.New("smtp unreachable")}
	NewNotificationService(dispatcher, mailer, nil, zap.NewNop()).RegisterHandlers()
	svc := newTicketService(tickets, &mockCategoryRepo{}, dispatcher, "")

	ticket, err := svc.Close(context.Background(), staffUser(1, domain.RoleAdmin), 5)
	require.NoError(t, err)
	assert.True(t, updated)
	assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
}

func TestTicketCreationSendsNoEmail(t *testing.T) {
	tickets := &mockTicketRepo{
		CreateWithAttachmentsFn: func(_ context.Context, ticket *domain.Ticket, _ []domain.Attachment) error {
			ticket.ID = 1
			return nil
		},
	}
	dispatcher := events.NewInMemoryDispatcher()
	mailer := &recordingMailer{}
	NewNotificationService(dispatcher, mailer, nil, zap.NewNop()).RegisterHandlers()
	svc := newTicketService(tickets, &mockCategoryRepo{}, dispatcher, "")

	_, err := svc.Create(context.Background(), CreateTicketInput{
		Title:       "t",
		Description: "d",
		Email:       "a@example.com",
	})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}
