package notification

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/AIlhomov/Ticketing-System/internal/config"
)

// Message is an outbound email. SenderHint optionally names the identity the
// message should appear to originate from (e.g. a Google-linked account).
type Message struct {
	To         string
	Subject    string
	Body       string
	SenderHint string
}

// Mailer attempts delivery of a message. Implementations must be safe for
// concurrent use; callers treat failures as non-fatal.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through an SMTP relay via gomail.
type SMTPMailer struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPMailer builds a mailer from SMTP settings.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

// Send delivers the message. The context is accepted for interface symmetry;
// gomail has no context-aware dial.
func (m *SMTPMailer) Send(_ context.Context, msg Message) error {
	mail := gomail.NewMessage()
	mail.SetAddressHeader("From", m.from, m.fromName)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	if msg.SenderHint != "" {
		mail.SetHeader("X-Sender-Identity", msg.SenderHint)
	}
	mail.SetBody("text/html", msg.Body)
	return m.dialer.DialAndSend(mail)
}

// LogMailer records would-be deliveries instead of sending. Used when SMTP
// credentials are not configured (development, tests of wiring).
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs the mailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email delivery skipped (no SMTP configured)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
