package mailer

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
)

// Mailer sends plain-text mail. Send failures are treated as non-critical by
// callers: logged, never surfaced to the user.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host string
	port string
	user string
	pass string
}

func NewSMTP(host, port, user, pass string) Mailer {
	return &smtpMailer{host: host, port: port, user: user, pass: pass}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	addr := net.JoinHostPort(m.host, m.port)
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	c, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer c.Quit()

	if err := c.Auth(smtp.PlainAuth("", m.user, m.pass, m.host)); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}
	if err := c.Mail(m.user); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", m.user, to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	return w.Close()
}

type logMailer struct{ log *slog.Logger }

// NewLog returns a mailer that only logs, for dev environments without SMTP
// credentials.
func NewLog(log *slog.Logger) Mailer { return &logMailer{log: log} }

func (m *logMailer) Send(to, subject, body string) error {
	m.log.Info("mail (not sent)", "to", to, "subject", subject)
	return nil
}
