package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/NoteHub-io/notehub/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Mailer sends transactional email over plain SMTP. Sends are synchronous and
// not retried; a failed send is the caller's problem.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// New creates a Mailer from the SMTP configuration.
func New(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTP.Host,
		port:     cfg.SMTP.Port,
		username: cfg.SMTP.User,
		password: cfg.SMTP.Password,
		from:     cfg.SMTP.From,
	}
}

// SendPasswordReset renders the reset template and dispatches it.
func (m *Mailer) SendPasswordReset(to, username, resetLink string) error {
	body, err := RenderResetEmail(username, resetLink)
	if err != nil {
		return err
	}
	return m.Send(to, "Reset your password", body)
}

// Send delivers a single HTML email.
func (m *Mailer) Send(to, subject, html string) error {
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, html,
	)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

type resetEmailData struct {
	Username  string
	ResetLink string
}

// RenderResetEmail renders the password reset email body.
func RenderResetEmail(username, resetLink string) (string, error) {
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, "reset-password.html", resetEmailData{
		Username:  username,
		ResetLink: resetLink,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
