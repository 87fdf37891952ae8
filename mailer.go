package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type Attachment struct {
	Filename string
	Content  []byte
}

type Email struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// SMTPMailer delivers mail through an authenticated SMTP relay. Every Send
// opens its own connection so concurrent sends do not share a session.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPMailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	msg, err := newMessage(m.from, email)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.host,
		mail.WithPort(m.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.username),
		mail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}
	return nil
}

// newMessage builds a plain-text message with the email's attachments.
func newMessage(from string, email Email) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", from, err)
	}
	if err := msg.To(email.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", email.To, err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextPlain, email.Body)

	for _, a := range email.Attachments {
		if err := msg.AttachReader(a.Filename, bytes.NewReader(a.Content)); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", a.Filename, err)
		}
	}
	return msg, nil
}
