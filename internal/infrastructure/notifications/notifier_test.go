package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/you/coursegate/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sentMail struct{ to, subject, body string }

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	f.sent = append(f.sent, sentMail{to, subject, body})
	return f.err
}

type fakeSMS struct {
	to, body []string
	err      error
}

func (f *fakeSMS) SendSMS(_ context.Context, to, body string) error {
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return f.err
}

func enrollment() *domain.Enrollment {
	return &domain.Enrollment{ID: 12, Name: "Ana <b>", Email: "ana@x.com", Phone: "+1555"}
}

func TestEnrollmentNotifier_EnrollmentSubmitted(t *testing.T) {
	mail, sms := &fakeMailer{}, &fakeSMS{}
	n := NewEnrollmentNotifier(mail, sms, "https://learn.example.com/", "admin@x.com", "+1999")

	require.NoError(t, n.EnrollmentSubmitted(context.Background(), enrollment()))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "admin@x.com", mail.sent[0].to)
	assert.Contains(t, mail.sent[0].body, "Ana &lt;b&gt;", "names are escaped")
	assert.NotContains(t, mail.sent[0].body, "<b>")
	require.Len(t, sms.to, 1)
	assert.Equal(t, "+1999", sms.to[0])
	assert.Contains(t, sms.body[0], "#12")
}

func TestEnrollmentNotifier_EnrollmentSubmitted_NoAdminContacts(t *testing.T) {
	mail, sms := &fakeMailer{}, &fakeSMS{}
	n := NewEnrollmentNotifier(mail, sms, "https://learn.example.com", "", "")

	require.NoError(t, n.EnrollmentSubmitted(context.Background(), enrollment()))
	assert.Empty(t, mail.sent)
	assert.Empty(t, sms.to)
}

func TestEnrollmentNotifier_EnrollmentSubmitted_JoinsErrors(t *testing.T) {
	mailErr, smsErr := errors.New("smtp down"), errors.New("twilio down")
	n := NewEnrollmentNotifier(&fakeMailer{err: mailErr}, &fakeSMS{err: smsErr}, "", "admin@x.com", "+1999")

	err := n.EnrollmentSubmitted(context.Background(), enrollment())
	assert.ErrorIs(t, err, mailErr)
	assert.ErrorIs(t, err, smsErr)
}

func TestEnrollmentNotifier_AccessGranted(t *testing.T) {
	mail := &fakeMailer{}
	n := NewEnrollmentNotifier(mail, nil, "https://learn.example.com/", "admin@x.com", "")

	access := &domain.CourseAccess{Token: "abc123", ExpiresAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, n.AccessGranted(context.Background(), enrollment(), access))

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ana@x.com", mail.sent[0].to)
	assert.Contains(t, mail.sent[0].body, `href="https://learn.example.com/access/abc123"`)
	assert.Contains(t, mail.sent[0].body, "2025-04-01")
	assert.Contains(t, mail.sent[0].body, "set your password")
}

func TestEnrollmentNotifier_AccessGranted_ExistingPassword(t *testing.T) {
	mail := &fakeMailer{}
	n := NewEnrollmentNotifier(mail, nil, "https://learn.example.com", "", "")

	stamped := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	access := &domain.CourseAccess{Token: "abc123", ExpiresAt: stamped.AddDate(0, 1, 0), FirstAccessedAt: &stamped}
	require.NoError(t, n.AccessGranted(context.Background(), enrollment(), access))

	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].body, "existing password")
	assert.NotContains(t, mail.sent[0].body, "set your password")
}

func TestEnrollmentNotifier_EnrollmentRejected(t *testing.T) {
	reason := "course is full"
	tests := []struct {
		name       string
		reason     *string
		wantReason bool
	}{
		{"with reason", &reason, true},
		{"without reason", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mail := &fakeMailer{}
			n := NewEnrollmentNotifier(mail, nil, "", "", "")
			e := enrollment()
			e.RejectionReason = tt.reason

			require.NoError(t, n.EnrollmentRejected(context.Background(), e))
			require.Len(t, mail.sent, 1)
			assert.Equal(t, tt.wantReason, strings.Contains(mail.sent[0].body, "course is full"))
		})
	}
}

func TestNewMailer_Selection(t *testing.T) {
	log := zap.NewNop()

	assert.IsType(t, &ResendMailer{}, NewMailer(MailerOptions{ResendAPIKey: "re_x", SMTPHost: "smtp.x"}, log))
	assert.IsType(t, &SMTPMailer{}, NewMailer(MailerOptions{SMTPHost: "smtp.x", SMTPPort: 587}, log))
	assert.IsType(t, &LogMailer{}, NewMailer(MailerOptions{}, log))
}

func TestLogMailer_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := NewMailer(MailerOptions{}, zap.New(core))

	require.NoError(t, m.Send(context.Background(), "ana@x.com", "Hello", "<p>secret link</p>"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "ana@x.com", entry.ContextMap()["to"])
	assert.NotContains(t, entry.ContextMap(), "body", "bodies carry access links and stay out of logs")
}

func TestSMTPMailer_Message(t *testing.T) {
	m := NewSMTPMailer("smtp.x", 587, "bot@x.com", "pw", "")
	msg := m.message("ana@x.com", "Hello", "<p>hi</p>")

	assert.Equal(t, []string{"bot@x.com"}, msg.GetHeader("From"), "from falls back to the username")
	assert.Equal(t, []string{"ana@x.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Hello"}, msg.GetHeader("Subject"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Send(ctx, "ana@x.com", "Hello", "<p>hi</p>"), context.Canceled)
}

func TestTwilioService_NoSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewTwilioService("", "", "", zap.New(core))

	require.NoError(t, s.SendSMS(context.Background(), "+1555", "hello"))
	assert.Equal(t, 1, logs.FilterMessage("sms not sent, no sender configured").Len())
}
