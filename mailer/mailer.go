package mailer

import (
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"os"
)

// ErrDelivery marks a transport failure. The checkout workflow treats
// it as non-fatal: the committed order stands, the caller is told the
// confirmation could not be sent.
var ErrDelivery = errors.New("order email could not be delivered")

// Mailer delivers an already-rendered message to the fixed operator
// recipient configured at construction time.
type Mailer interface {
	Send(subject, textBody, htmlBody string) error
}

type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       string
	suppress bool
}

// NewFromEnv builds the operator mailer from MAIL_* environment
// variables. Without credentials sending is suppressed so development
// checkouts still succeed.
func NewFromEnv() *SMTPMailer {
	m := &SMTPMailer{
		host:     getenv("MAIL_SERVER", "smtp.gmail.com"),
		port:     getenv("MAIL_PORT", "587"),
		username: os.Getenv("MAIL_USERNAME"),
		password: os.Getenv("MAIL_PASSWORD"),
		from:     os.Getenv("MAIL_DEFAULT_SENDER"),
		to:       os.Getenv("ORDER_NOTIFY_EMAIL"),
	}
	if m.from == "" {
		m.from = m.username
	}
	if m.to == "" {
		m.to = m.from
	}
	m.suppress = m.username == "" || m.password == ""
	return m
}

func (m *SMTPMailer) Send(subject, textBody, htmlBody string) error {
	if m.suppress {
		slog.Warn("mail credentials not configured, suppressing order email", "subject", subject)
		return nil
	}

	msg := buildMessage(m.from, m.to, subject, textBody, htmlBody)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.from, []string{m.to}, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative MIME message with a
// plain-text part and an HTML part.
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	const boundary = "tienda-order-boundary"

	headers := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/alternative; boundary=" + boundary + "\r\n\r\n"

	body := "--" + boundary + "\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n\r\n" +
		textBody + "\r\n" +
		"--" + boundary + "\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n\r\n" +
		htmlBody + "\r\n" +
		"--" + boundary + "--\r\n"

	return []byte(headers + body)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
