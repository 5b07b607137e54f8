package email

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	msg  string
}

func newTestSender(err error) (*smtpSender, *[]sentMail) {
	var sent []sentMail
	s := NewSMTPSender("mailpit", "1025", "", "", "news@celebstyle.test", "CelebStyle").(*smtpSender)
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, sentMail{addr: addr, from: from, to: to, msg: string(msg)})
		return err
	}
	return s, &sent
}

func TestSendWelcome(t *testing.T) {
	s, sent := newTestSender(nil)

	err := s.SendWelcome(context.Background(), WelcomeData{
		Email:          "fan@example.com",
		UnsubscribeURL: "https://celebstyle.test/newsletter/unsubscribe?email=fan%40example.com",
	})
	require.NoError(t, err)

	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "mailpit:1025", mail.addr)
	assert.Equal(t, []string{"fan@example.com"}, mail.to)
	assert.Contains(t, mail.msg, "Subject: Welcome to CelebStyle\r\n")
	assert.Contains(t, mail.msg, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, mail.msg, "unsubscribe?email=fan%40example.com")

	head, _, ok := strings.Cut(mail.msg, "\r\n\r\n")
	require.True(t, ok, "headers separated from body")
	assert.True(t, strings.HasPrefix(head, "From: news@celebstyle.test"))
}

func TestSendWelcome_NoUnsubscribeLink(t *testing.T) {
	s, sent := newTestSender(nil)

	require.NoError(t, s.SendWelcome(context.Background(), WelcomeData{Email: "fan@example.com"}))

	assert.NotContains(t, (*sent)[0].msg, "Unsubscribe here")
}

func TestSendWelcome_SMTPError(t *testing.T) {
	s, _ := newTestSender(errors.New("connection refused"))

	err := s.SendWelcome(context.Background(), WelcomeData{Email: "fan@example.com"})

	assert.ErrorContains(t, err, "connection refused")
}

func TestSendWelcome_CanceledContext(t *testing.T) {
	s, sent := newTestSender(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SendWelcome(ctx, WelcomeData{Email: "fan@example.com"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, *sent)
}
