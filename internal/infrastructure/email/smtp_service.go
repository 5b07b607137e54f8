package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
)

// WelcomeData nội dung email chào mừng subscriber mới
type WelcomeData struct {
	Email          string
	Source         string
	UnsubscribeURL string
}

// Sender gửi email transactional của newsletter
type Sender interface {
	SendWelcome(ctx context.Context, data WelcomeData) error
}

// SendFunc cùng signature với smtp.SendMail, thay được trong test
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpSender struct {
	addr     string
	from     string
	siteName string
	auth     smtp.Auth
	send     SendFunc
}

// NewSMTPSender dùng PLAIN auth khi có username, không thì gửi thẳng (Mailpit/MailHog lúc dev)
func NewSMTPSender(host, port, username, password, from, siteName string) Sender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &smtpSender{
		addr:     host + ":" + port,
		from:     from,
		siteName: siteName,
		auth:     auth,
		send:     smtp.SendMail,
	}
}

func (s *smtpSender) SendWelcome(ctx context.Context, data WelcomeData) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Welcome to %s", s.siteName)
	msg := buildMessage(s.from, data.Email, subject, welcomeBody(s.siteName, data))

	if err := s.send(s.addr, s.auth, s.from, []string{data.Email}, msg); err != nil {
		log.Error().
			Err(err).
			Str("smtp_addr", s.addr).
			Msg("Failed to send welcome email")
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

func welcomeBody(siteName string, data WelcomeData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi,\r\n\r\nThanks for subscribing to the %s newsletter.\r\n", siteName)
	b.WriteString("Every week we send the latest celebrity outfits, where to shop them and fresh style guides.\r\n")
	if data.UnsubscribeURL != "" {
		fmt.Fprintf(&b, "\r\nNot interested anymore? Unsubscribe here:\r\n%s\r\n", data.UnsubscribeURL)
	}
	return b.String()
}

// buildMessage header RFC 5322 tối thiểu, body plain text UTF-8
func buildMessage(from, to, subject, body string) []byte {
	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
	}
	return []byte(strings.Join(headers, "\r\n") + "\r\n\r\n" + body)
}
