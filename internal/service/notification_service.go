package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/AIlhomov/Ticketing-System/internal/events"
	"github.com/AIlhomov/Ticketing-System/internal/notification"
)

// NotificationService turns ticket events into outbound email. Delivery is
// best effort: a send failure is logged and never propagates back to the
// operation that triggered the event.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     notification.Mailer
	tokenCache *notification.GoogleTokenCache
	logger     *zap.Logger
}

// NewNotificationService builds the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer notification.Mailer, tokenCache *notification.GoogleTokenCache, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		tokenCache: tokenCache,
		logger:     logger,
	}
}

// RegisterHandlers subscribes the service to the ticket event stream.
// Status changes and closures each produce their own email, so closing a
// ticket sends both messages.
func (s *NotificationService) RegisterHandlers() {
	s.dispatcher.Subscribe(events.EventTicketStatusChanged, s.handleStatusChanged)
	s.dispatcher.Subscribe(events.EventTicketClosed, s.handleClosed)
	s.dispatcher.Subscribe(events.EventTicketCreated, s.logEvent)
	s.dispatcher.Subscribe(events.EventTicketClaimed, s.logEvent)
	s.dispatcher.Subscribe(events.EventCommentAdded, s.logEvent)
}

func (s *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		s.logger.Warn("unexpected payload type for status change event", zap.String("event_id", event.ID))
		return nil
	}
	if payload.RecipientEmail == "" {
		s.logger.Debug("status change event has no recipient", zap.Int64("ticket_id", event.TicketID))
		return nil
	}

	msg := notification.Message{
		To:      payload.RecipientEmail,
		Subject: fmt.Sprintf("Ticket #%d status updated", event.TicketID),
		Body: fmt.Sprintf("<p>Your ticket <b>%s</b> changed status from %s to %s.</p>",
			payload.Title, payload.OldStatus, payload.NewStatus),
	}
	s.deliver(ctx, event, payload.RecipientUser, msg)
	return nil
}

func (s *NotificationService) handleClosed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketClosedPayload)
	if !ok {
		s.logger.Warn("unexpected payload type for closed event", zap.String("event_id", event.ID))
		return nil
	}
	if payload.RecipientEmail == "" {
		s.logger.Debug("closed event has no recipient", zap.Int64("ticket_id", event.TicketID))
		return nil
	}

	msg := notification.Message{
		To:      payload.RecipientEmail,
		Subject: fmt.Sprintf("Ticket #%d resolved", event.TicketID),
		Body: fmt.Sprintf("<p>Your ticket <b>%s</b> has been resolved and closed. Reply to this email if the issue persists.</p>",
			payload.Title),
	}
	s.deliver(ctx, event, payload.RecipientUser, msg)
	return nil
}

func (s *NotificationService) deliver(ctx context.Context, event events.Event, recipientUser *int64, msg notification.Message) {
	if s.tokenCache != nil && recipientUser != nil {
		msg.SenderHint = s.tokenCache.Get(ctx, *recipientUser)
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send notification email",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.Int64("ticket_id", event.TicketID),
		)
		return
	}
	s.logger.Info("notification sent",
		zap.String("event_type", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID),
		zap.String("to", msg.To),
	)
}

func (s *NotificationService) logEvent(_ context.Context, event events.Event) error {
	s.logger.Info("ticket event",
		zap.String("event_type", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID),
	)
	return nil
}
