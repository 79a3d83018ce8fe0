package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer sends account emails.
type Mailer interface {
	SendConfirmation(to, username, link string) error
}

// SMTPMailer delivers mail through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *SMTPMailer) SendConfirmation(to, username, link string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirm your PhotoShare email")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to PhotoShare! Please confirm your email by following "+
			"<a href=%q>this link</a>.</p>", username, link))
	return m.dialer.DialAndSend(msg)
}

// NoopMailer logs instead of sending; used when SMTP is not configured.
type NoopMailer struct {
	Log zerolog.Logger
}

func (m *NoopMailer) SendConfirmation(to, _, link string) error {
	m.Log.Info().Str("to", to).Str("link", link).Msg("smtp not configured, skipping confirmation mail")
	return nil
}
