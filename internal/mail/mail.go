// Package mail sends outbound notification emails. Delivery is attempted
// once; errors go back to the caller.
package mail

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Message is a contact-form submission
type Message struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Topic string `json:"topic"`
	Body  string `json:"body"`
}

// Validate checks the fields a notification cannot go without
func (m Message) Validate() error {
	var missing []string
	if strings.TrimSpace(m.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(m.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(m.Body) == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required", strings.Join(missing, ", "))
	}
	if strings.ContainsAny(m.Email+m.Name+m.Topic, "\r\n") {
		return errors.New("header fields may not contain line breaks")
	}
	return nil
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTPConfig holds the relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// SMTP relays messages through an SMTP server
type SMTP struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	now  func() time.Time
}

// NewSMTP creates an SMTP mailer
func NewSMTP(cfg SMTPConfig) *SMTP {
	return &SMTP{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

// Send formats and relays one message
func (s *SMTP) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := s.send(addr, auth, s.cfg.From, s.cfg.To, s.format(m)); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func (s *SMTP) format(m Message) []byte {
	topic := m.Topic
	if topic == "" {
		topic = "General"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(s.cfg.To, ", "))
	fmt.Fprintf(&b, "Reply-To: %s\r\n", m.Email)
	fmt.Fprintf(&b, "Subject: [%s] Message from %s\r\n", topic, m.Name)
	fmt.Fprintf(&b, "Date: %s\r\n", s.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Name: %s\r\nEmail: %s\r\n", m.Name, m.Email)
	if m.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\r\n", m.Phone)
	}
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer creates a mailer for development
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

// Send logs the message
func (l *LogMailer) Send(ctx context.Context, m Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	l.log.Info("mail not sent, delivery disabled",
		zap.String("name", m.Name),
		zap.String("email", m.Email),
		zap.String("topic", m.Topic),
		zap.Int("body_bytes", len(m.Body)))
	return nil
}
