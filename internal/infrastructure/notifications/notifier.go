package notifications

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/you/coursegate/domain"
)

// EnrollmentNotifier implements domain.NotificationService on top of a mailer and an SMS sender
type EnrollmentNotifier struct {
	mail       Mailer
	sms        SMSSender
	baseURL    string
	adminEmail string
	adminPhone string
}

// NewEnrollmentNotifier creates a new notifier. sms may be nil.
func NewEnrollmentNotifier(mail Mailer, sms SMSSender, baseURL, adminEmail, adminPhone string) domain.NotificationService {
	return &EnrollmentNotifier{
		mail:       mail,
		sms:        sms,
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminEmail: adminEmail,
		adminPhone: adminPhone,
	}
}

// AccessLink is where a student opens an access token
func (n *EnrollmentNotifier) AccessLink(token string) string {
	return n.baseURL + "/access/" + token
}

// EnrollmentSubmitted alerts the administrators
func (n *EnrollmentNotifier) EnrollmentSubmitted(ctx context.Context, e *domain.Enrollment) error {
	var errs []error
	if n.adminEmail != "" {
		body := fmt.Sprintf(`<h1>New enrollment request #%d</h1><p>%s &lt;%s&gt;, phone %s</p>`,
			e.ID, html.EscapeString(e.Name), html.EscapeString(e.Email), html.EscapeString(e.Phone))
		errs = append(errs, n.mail.Send(ctx, n.adminEmail, "New enrollment request", body))
	}
	if n.sms != nil && n.adminPhone != "" {
		errs = append(errs, n.sms.SendSMS(ctx, n.adminPhone, fmt.Sprintf("New enrollment #%d from %s (%s)", e.ID, e.Name, e.Email)))
	}
	return errors.Join(errs...)
}

// AccessGranted sends the student the access link
func (n *EnrollmentNotifier) AccessGranted(ctx context.Context, e *domain.Enrollment, access *domain.CourseAccess) error {
	link := html.EscapeString(n.AccessLink(access.Token))
	action := "sign in with your existing password"
	if access.NeedsPasswordSetup() {
		action = "set your password"
	}
	body := fmt.Sprintf(`<h1>Hi %s, your enrollment was approved</h1>`+
		`<p>Open <a href="%s">%s</a> to %s and start the course.</p>`+
		`<p>The link is valid until %s.</p>`,
		html.EscapeString(e.Name), link, link, action, access.ExpiresAt.Format("2006-01-02"))
	return n.mail.Send(ctx, e.Email, "Your course access is ready", body)
}

// EnrollmentRejected tells the student the request was declined
func (n *EnrollmentNotifier) EnrollmentRejected(ctx context.Context, e *domain.Enrollment) error {
	body := fmt.Sprintf(`<h1>Hi %s</h1><p>Your enrollment request was not approved.</p>`, html.EscapeString(e.Name))
	if e.RejectionReason != nil && *e.RejectionReason != "" {
		body += fmt.Sprintf(`<p>Reason: %s</p>`, html.EscapeString(*e.RejectionReason))
	}
	return n.mail.Send(ctx, e.Email, "About your enrollment request", body)
}
