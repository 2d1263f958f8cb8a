package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Sender struct {
	Name    string
	Address string
}

func (s Sender) header() string {
	if s.Name == "" {
		return s.Address
	}
	return fmt.Sprintf("%s <%s>", s.Name, s.Address)
}

// SMTP sends plain text mail through a relay with PLAIN auth.
type SMTP struct {
	host     string
	port     int
	username string
	password string
	from     Sender
	log      *zerolog.Logger
}

func NewSMTP(host string, port int, username, password string, from Sender, log *zerolog.Logger) *SMTP {
	return &SMTP{host: host, port: port, username: username, password: password, from: from, log: log}
}

func (m *SMTP) Send(_ context.Context, msg Message) error {
	headers := []string{
		"From: " + m.from.header(),
		"To: " + msg.To,
		"Subject: " + msg.Subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	if msg.ReplyTo != "" {
		headers = append(headers, "Reply-To: "+msg.ReplyTo)
	}
	raw := strings.Join(headers, "\r\n") + "\r\n\r\n" + msg.Body

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from.Address, []string{msg.To}, []byte(raw)); err != nil {
		m.log.Warn().Err(err).Str("email", msg.To).Msg("failed to send email")
		return errors.Wrap(err, "send email")
	}
	m.log.Info().Str("email", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// SendGrid sends mail through the SendGrid v3 API.
type SendGrid struct {
	client *sendgrid.Client
	from   *sgmail.Email
	log    *zerolog.Logger
}

func NewSendGrid(apiKey string, from Sender, log *zerolog.Logger) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail(from.Name, from.Address),
		log:    log,
	}
}

func (m *SendGrid) Send(ctx context.Context, msg Message) error {
	mail := sgmail.NewSingleEmailPlainText(m.from, msg.Subject, sgmail.NewEmail("", msg.To), msg.Body)
	if msg.ReplyTo != "" {
		mail.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}
	res, err := m.client.SendWithContext(ctx, mail)
	if err != nil {
		m.log.Warn().Err(err).Str("email", msg.To).Msg("failed to send email")
		return errors.Wrap(err, "send email")
	}
	if res.StatusCode >= 300 {
		m.log.Warn().Int("status", res.StatusCode).Str("body", res.Body).Str("email", msg.To).Msg("sendgrid rejected email")
		return errors.Errorf("sendgrid: status %d", res.StatusCode)
	}
	m.log.Info().Str("email", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// Log writes mail to the logger instead of sending it.
type Log struct {
	log *zerolog.Logger
}

func NewLog(log *zerolog.Logger) *Log {
	return &Log{log: log}
}

func (m *Log) Send(_ context.Context, msg Message) error {
	m.log.Info().
		Str("email", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("email not sent, log mailer in use")
	return nil
}
