package notifications

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers one HTML email
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMSSender delivers one text message
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// MailerOptions selects the email transport. Resend wins when an API key is set,
// then SMTP when a host is set. Otherwise messages are only logged.
type MailerOptions struct {
	ResendAPIKey string
	ResendFrom   string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
}

// NewMailer picks a transport from opts
func NewMailer(opts MailerOptions, log *zap.Logger) Mailer {
	switch {
	case opts.ResendAPIKey != "":
		return NewResendMailer(opts.ResendAPIKey, opts.ResendFrom)
	case opts.SMTPHost != "":
		return NewSMTPMailer(opts.SMTPHost, opts.SMTPPort, opts.SMTPUsername, opts.SMTPPassword, opts.SMTPFrom)
	default:
		return &LogMailer{log: log.Named("mail")}
	}
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	log *zap.Logger
}

// Send implements Mailer
func (m *LogMailer) Send(_ context.Context, to, subject, _ string) error {
	m.log.Info("email not sent, no transport configured",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
