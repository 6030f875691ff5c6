// Package services provides external service integrations and technical concerns like mail delivery
package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mkarimzade/Simorgh/utils"
	mail "gopkg.in/gomail.v2"
)

// MailSender is the outbound-mail capability the dispatcher calls. A failed
// send must leave no state behind; retry policy belongs to the caller.
type MailSender interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// SMTPMailSender delivers mail through a plain SMTP relay
type SMTPMailSender struct {
	host     string
	port     int
	username string
	password string
}

// NewSMTPMailSender creates an SMTP-backed mail sender
func NewSMTPMailSender(host string, port int, username, password string) MailSender {
	return &SMTPMailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// Send delivers one message. The context deadline is honored by running the
// blocking dial-and-send in a goroutine; gomail itself has no context support.
func (s *SMTPMailSender) Send(ctx context.Context, from, to, subject, body string) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("invalid recipient address: %s", to)
	}

	m := mail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := mail.NewDialer(s.host, s.port, s.username, s.password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(m)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("smtp send canceled: %w", ctx.Err())
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send to %s failed: %w", to, err)
		}
		return nil
	}
}

// MockMailSender implements MailSender for testing and local runs
type MockMailSender struct {
	mu           sync.Mutex
	SentMessages []MockMailMessage

	// FailWith makes every Send return this error when non-nil
	FailWith error
}

// MockMailMessage represents a mock delivered email
type MockMailMessage struct {
	From    string
	To      string
	Subject string
	Body    string
	SentAt  time.Time
}

// NewMockMailSender creates a new mock mail sender
func NewMockMailSender() *MockMailSender {
	return &MockMailSender{
		SentMessages: make([]MockMailMessage, 0),
	}
}

// Send records a mock email
func (m *MockMailSender) Send(ctx context.Context, from, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailWith != nil {
		return m.FailWith
	}

	msg := MockMailMessage{
		From:    from,
		To:      to,
		Subject: subject,
		Body:    body,
		SentAt:  utils.UTCNow(),
	}
	log.Printf("Mock email sent to %s from %s [%s]", to, from, subject)
	m.SentMessages = append(m.SentMessages, msg)
	return nil
}

// GetSentMessages returns all sent mock messages
func (m *MockMailSender) GetSentMessages() []MockMailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockMailMessage, len(m.SentMessages))
	copy(out, m.SentMessages)
	return out
}

// ClearSentMessages clears the sent messages list
func (m *MockMailSender) ClearSentMessages() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMessages = make([]MockMailMessage, 0)
}
