// Package notify sends fire-and-forget email notifications.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/rosales/inkwell/internal/models"
)

// Notifier delivers user-facing notifications. Implementations must never
// block the primary request path; failures are logged, not returned.
type Notifier interface {
	NoteCreated(ctx context.Context, to string, note *models.Note)
}

// Nop is a Notifier that does nothing.
type Nop struct{}

// NoteCreated is a no-op.
func (Nop) NoteCreated(context.Context, string, *models.Note) {}

// MailerConfig configures the SMTP notifier.
type MailerConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// Mailer sends notifications over SMTP.
type Mailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewMailer creates an SMTP notifier. Auth is used only when a username is
// configured.
func NewMailer(cfg MailerConfig) *Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &Mailer{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
	}
}

// NoteCreated emails the owner about a new note. Errors are logged only.
func (m *Mailer) NoteCreated(_ context.Context, to string, note *models.Note) {
	if to == "" {
		return
	}
	msg := []byte("From: Inkwell <" + m.from + ">\r\n" +
		"To: " + to + "\r\n" +
		"Subject: New note: " + note.Title + "\r\n" +
		"\r\n" +
		fmt.Sprintf("Your note %q was created on %s.\r\n",
			note.Title, note.CreatedAt.Format(time.RFC1123)))
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		slog.Error("notification email failed",
			slog.String("to", to), slog.String("error", err.Error()))
		return
	}
	slog.Info("notification email sent", slog.String("to", to))
}
