// Package email delivers task notifications over SMTP. No repository in the
// surrounding ecosystem we build on carries a mail client, so delivery uses
// net/smtp directly; when SMTP is not configured a log-only notifier stands
// in so the rest of the pipeline behaves identically in development.
package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// SMTPNotifier implements ports.Notifier over a plain SMTP relay.
type SMTPNotifier struct {
	addr   string // host:port
	from   string
	auth   smtp.Auth
	logger zerolog.Logger
}

func NewSMTPNotifier(addr, from, username, password string, logger zerolog.Logger) *SMTPNotifier {
	var auth smtp.Auth
	if username != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPNotifier{addr: addr, from: from, auth: auth, logger: logger}
}

// Notify mails the task creator and, when it differs from the creator, the
// assignee. Empty addresses are skipped. A failure on one recipient does not
// stop the other.
func (n *SMTPNotifier) Notify(_ context.Context, msg ports.TaskNotification) error {
	body := buildBody(&msg.Task)

	var firstErr error
	if msg.CreatorEmail != "" {
		if err := n.send(msg.CreatorEmail, "Task Created: "+msg.Task.Title, body); err != nil {
			firstErr = err
		}
	}
	if msg.AssigneeEmail != "" {
		if err := n.send(msg.AssigneeEmail, "Task Assigned: "+msg.Task.Title, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("\r\n")
	b.WriteString(body)

	if err := smtp.SendMail(n.addr, n.auth, n.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	n.logger.Debug().Str("to", to).Str("subject", subject).Msg("notification mail sent")
	return nil
}

func buildBody(t *domain.Task) string {
	creator := t.CreateUsername
	if creator == "" {
		creator = "Unknown"
	}
	assignee := t.AssignedUsername
	if assignee == "" {
		assignee = "Unassigned"
	}
	return fmt.Sprintf(
		"Task Details:\nID: %s\nTitle: %s\nDescription: %s\nStatus: %s\nCreated By: %s\nAssigned To: %s\nCreated Date: %s\n",
		t.ID, t.Title, t.Description, t.Status, creator, assignee,
		t.CreatedDate.UTC().Format(time.RFC3339),
	)
}

// LogNotifier is the stand-in used when SMTP is unconfigured; it records the
// would-be delivery at info level and always succeeds.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, msg ports.TaskNotification) error {
	n.logger.Info().
		Str("task_id", msg.Task.ID).
		Str("title", msg.Task.Title).
		Str("creator_email", msg.CreatorEmail).
		Str("assignee_email", msg.AssigneeEmail).
		Msg("task notification (smtp not configured)")
	return nil
}
