package services

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"minbar/internal/config"
	"minbar/internal/logger"
	"minbar/internal/utils"
	"minbar/internal/utils/helpers"

	"github.com/jordan-wright/email"
	"go.uber.org/zap"
)

type EmailService struct {
	auth    smtp.Auth
	from    string
	addr    string
	baseURL string
	ttl     time.Duration

	// send is replaced in tests.
	send func(e *email.Email, addr string, a smtp.Auth) error
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		auth:    smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		from:    cfg.MailFrom,
		addr:    cfg.SMTPHost + ":" + cfg.SMTPPort,
		baseURL: cfg.BaseURL,
		ttl:     cfg.PasswordResetTTL,
		send: func(e *email.Email, addr string, a smtp.Auth) error {
			return e.Send(addr, a)
		},
	}
}

func (s *EmailService) Send(to []string, subject, body string) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = to
	e.Subject = subject
	e.Text = []byte(body)
	return s.send(e, s.addr, s.auth)
}

func (s *EmailService) SendHTML(to []string, subject, html string) error {
	e := email.NewEmail()
	e.From = s.from
	e.To = to
	e.Subject = subject
	e.HTML = []byte(html)
	return s.send(e, s.addr, s.auth)
}

// ResetLink is where the emailed token can be redeemed.
func (s *EmailService) ResetLink(token string) string {
	return fmt.Sprintf("%s/auth/password-reset/%s", s.baseURL, token)
}

// SendResetPasswordEmail returns nil only once the SMTP server accepted the
// message. It gives up when ctx is done; the SMTP exchange itself cannot be
// interrupted and finishes in the background.
func (s *EmailService) SendResetPasswordEmail(ctx context.Context, to, token string) error {
	html := helpers.BuildPasswordResetHTML(s.ResetLink(token), time.Now().Add(s.ttl))

	done := make(chan error, 1)
	go func() {
		done <- s.SendHTML([]string{to}, "Password reset | إعادة تعيين كلمة المرور", html)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.WithCtx(ctx).Error("Reset email rejected", zap.String("to", utils.MaskEmail(to)), zap.Error(err))
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

type EmailJob struct {
	To      []string
	Subject string
	Body    string
	IsHTML  bool
}

// EmailQueue feeds the background email workers.
var EmailQueue = make(chan EmailJob, 100)

// Enqueue adds a job without blocking; a full queue drops the job.
func Enqueue(job EmailJob) bool {
	select {
	case EmailQueue <- job:
		return true
	default:
		logger.Log.Warn("Email queue is full, dropping message", zap.String("subject", job.Subject))
		return false
	}
}

// StartEmailWorker drains EmailQueue with the given number of workers until
// ctx is cancelled.
func StartEmailWorker(ctx context.Context, emailService *EmailService, workers int) {
	if workers <= 0 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case job := <-EmailQueue:
					var err error
					if job.IsHTML {
						err = emailService.SendHTML(job.To, job.Subject, job.Body)
					} else {
						err = emailService.Send(job.To, job.Subject, job.Body)
					}
					if err != nil {
						logger.Log.Error("Failed to send email", zap.String("subject", job.Subject), zap.Error(err))
					}
				}
			}
		}()
	}
}
