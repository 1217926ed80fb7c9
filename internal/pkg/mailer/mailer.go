package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"mentorhub/internal/config"
)

// Mailer sends booking confirmation emails over SMTP. It is constructed
// explicitly and injected where needed; there is no package-level transport.
// Send never returns an error: a mail that could not be delivered within the
// timeout is reported as false and the booking flow moves on.
type Mailer struct {
	cfg  config.SMTPConfig
	log  *zap.Logger
	tmpl *template.Template
}

const confirmationTemplate = `<html>
<body>
  <p>Hi {{.Name}},</p>
  <p>Your mentoring session on <b>{{.Date}}</b> at <b>{{.Time}}</b> is confirmed.</p>
  {{if .MeetingLink}}<p>Join here: <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></p>
  {{else}}<p>Your meeting link will be shared with you shortly.</p>{{end}}
  <p>— MentorHub</p>
</body>
</html>`

type ConfirmationData struct {
	Name        string
	MeetingLink string
	Date        string
	Time        string
}

func New(cfg config.SMTPConfig, log *zap.Logger) *Mailer {
	return &Mailer{
		cfg:  cfg,
		log:  log,
		tmpl: template.Must(template.New("confirmation").Parse(confirmationTemplate)),
	}
}

// Healthcheck dials the SMTP server once at startup so a broken mail setup
// is visible in the logs immediately instead of on the first booking.
func (m *Mailer) Healthcheck() error {
	if !m.cfg.Configured() {
		return fmt.Errorf("smtp is not configured: set SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD and EMAIL_FROM")
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	conn, err := net.DialTimeout("tcp", addr, m.cfg.Timeout)
	if err != nil {
		return fmt.Errorf("smtp healthcheck dial %s: %w", addr, err)
	}
	_ = conn.Close()

	m.log.Info("connected to email server", zap.String("host", m.cfg.Host))
	return nil
}

// SendConfirmation delivers the booking confirmation email. The attempt is
// bounded by the configured timeout and by ctx; the result is purely
// informational.
func (m *Mailer) SendConfirmation(ctx context.Context, to string, data ConfirmationData) bool {
	if !m.cfg.Configured() {
		m.log.Warn("skipping confirmation email: smtp not configured")
		return false
	}
	if to == "" || !strings.Contains(to, "@") {
		m.log.Warn("skipping confirmation email: invalid recipient", zap.String("to", to))
		return false
	}

	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, data); err != nil {
		m.log.Error("confirmation template render failed", zap.Error(err))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.send(to, "Booking Confirmation - MentorHub", body.String())
	}()

	select {
	case err := <-done:
		if err != nil {
			m.log.Error("confirmation email send failed", zap.String("to", to), zap.Error(err))
			return false
		}
		m.log.Info("confirmation email sent", zap.String("to", to))
		return true
	case <-ctx.Done():
		m.log.Error("confirmation email timed out", zap.String("to", to))
		return false
	}
}

func (m *Mailer) send(to, subject, html string) error {
	from := m.cfg.FromAddress()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		html,
	}, "\r\n")

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	return smtp.SendMail(addr, auth, from, []string{to}, []byte(msg))
}

// FormatWhen renders the date and time lines the way the confirmation
// template expects them.
func FormatWhen(t time.Time, loc *time.Location) (date, clock string) {
	local := t.In(loc)
	return local.Format("02-01-2006"), local.Format("15:04")
}
