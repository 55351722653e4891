package services

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"minbar/internal/config"

	"github.com/jordan-wright/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmailService(send func(e *email.Email, addr string, a smtp.Auth) error) *EmailService {
	s := NewEmailService(&config.Config{
		SMTPHost:         "smtp.example.org",
		SMTPPort:         "587",
		MailFrom:         "noreply@example.org",
		BaseURL:          "https://minbar.example",
		PasswordResetTTL: 24 * time.Hour,
	})
	s.send = send
	return s
}

func TestSendResetPasswordEmail_BuildsLink(t *testing.T) {
	var sent *email.Email
	var addr string
	s := newTestEmailService(func(e *email.Email, a string, _ smtp.Auth) error {
		sent, addr = e, a
		return nil
	})

	require.NoError(t, s.SendResetPasswordEmail(context.Background(), "x@y.com", "abc123"))
	require.NotNil(t, sent)
	assert.Equal(t, "smtp.example.org:587", addr)
	assert.Equal(t, []string{"x@y.com"}, sent.To)
	assert.True(t, strings.Contains(string(sent.HTML), "https://minbar.example/auth/password-reset/abc123"))
}

func TestSendResetPasswordEmail_TransportError(t *testing.T) {
	boom := errors.New("550 mailbox unavailable")
	s := newTestEmailService(func(*email.Email, string, smtp.Auth) error { return boom })

	assert.ErrorIs(t, s.SendResetPasswordEmail(context.Background(), "x@y.com", "t"), boom)
}

func TestSendResetPasswordEmail_ContextDone(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	s := newTestEmailService(func(*email.Email, string, smtp.Auth) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.SendResetPasswordEmail(ctx, "x@y.com", "t"), context.DeadlineExceeded)
}

func TestEmailWorker_DrainsQueue(t *testing.T) {
	got := make(chan string, 16)
	s := newTestEmailService(func(e *email.Email, _ string, _ smtp.Auth) error {
		got <- e.Subject
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEmailWorker(ctx, s, 1)

	require.True(t, Enqueue(EmailJob{To: []string{"a@b.c"}, Subject: "hello", Body: "hi"}))
	deadline := time.After(2 * time.Second)
	for {
		select {
		case subj := <-got:
			if subj == "hello" {
				return
			}
		case <-deadline:
			t.Fatal("worker did not send the queued email")
		}
	}
}
