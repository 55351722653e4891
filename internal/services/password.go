package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minbar/internal/logger"
	"minbar/internal/models"
	"minbar/internal/repository"
	"minbar/internal/utils"
	"minbar/internal/utils/helpers"
	"minbar/internal/validation"

	"go.uber.org/zap"
)

// ResetNotifier delivers a reset token to its owner. A nil error means the
// mail transport accepted the message.
type ResetNotifier interface {
	SendResetPasswordEmail(ctx context.Context, email, token string) error
}

type ResetRepo interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetResetToken(ctx context.Context, id int64, tokenHash string, expiry, now time.Time) error
	ClearResetTokenIf(ctx context.Context, id int64, tokenHash string) (bool, error)
	FindByResetToken(ctx context.Context, tokenHash string, now time.Time) (*models.User, error)
	RedeemResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*models.User, error)
}

type PasswordService struct {
	repo        ResetRepo
	notifier    ResetNotifier
	ttl         time.Duration
	mailTimeout time.Duration
	now         func() time.Time
	enqueue     func(EmailJob) bool
}

func NewPasswordService(repo ResetRepo, notifier ResetNotifier, ttl, mailTimeout time.Duration) *PasswordService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if mailTimeout <= 0 {
		mailTimeout = 15 * time.Second
	}
	return &PasswordService{
		repo:        repo,
		notifier:    notifier,
		ttl:         ttl,
		mailTimeout: mailTimeout,
		now:         time.Now,
		enqueue:     Enqueue,
	}
}

// IssueForUser issues a reset token for the user with the given id. An
// unknown id is not an error.
func (s *PasswordService) IssueForUser(ctx context.Context, id int64) error {
	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		logger.WithCtx(ctx).Info("Password reset requested for unknown user (service)", zap.Int64("target_id", id))
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	return s.issue(ctx, u)
}

// IssueForEmail is IssueForUser keyed by exact email.
func (s *PasswordService) IssueForEmail(ctx context.Context, email string) error {
	if !validation.Email(email) {
		return validation.NewError("email", "must be a valid email address")
	}
	u, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		logger.WithCtx(ctx).Info("Password reset requested for unknown email (service)", zap.String("email", utils.MaskEmail(email)))
		return nil
	}
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}
	return s.issue(ctx, u)
}

func (s *PasswordService) issue(ctx context.Context, u *models.User) error {
	log := logger.WithCtx(ctx)

	token, err := utils.NewResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	hash := utils.HashResetToken(token)
	now := s.now()
	expiry := now.Add(s.ttl)

	if err := s.repo.SetResetToken(ctx, u.ID, hash, expiry, now); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	if err := s.deliver(ctx, u.Email, token); err != nil {
		log.Error("Reset email not delivered, rolling back token (service)", zap.Int64("target_id", u.ID), zap.Error(err))

		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if _, rbErr := s.repo.ClearResetTokenIf(rbCtx, u.ID, hash); rbErr != nil {
			log.Error("Failed to roll back reset token (service)", zap.Int64("target_id", u.ID), zap.Error(rbErr))
		}
		return fmt.Errorf("%w: %w", ErrResetDelivery, err)
	}

	log.Info("Reset email sent (service)", zap.Int64("target_id", u.ID), zap.Time("expires_at", expiry))
	return nil
}

// deliver calls the notifier bounded by mailTimeout. A panic in the notifier
// is reported as an error so the caller can still roll back.
func (s *PasswordService) deliver(ctx context.Context, email, token string) error {
	ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("notifier panic: %v", r)
			}
		}()
		done <- s.notifier.SendResetPasswordEmail(ctx, email, token)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Verify reports whether token currently opens a reset. It does not modify
// anything.
func (s *PasswordService) Verify(ctx context.Context, token string) (*models.ResetTokenStatus, error) {
	if token == "" {
		return nil, ErrInvalidResetToken
	}
	u, err := s.repo.FindByResetToken(ctx, utils.HashResetToken(token), s.now())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidResetToken
	}
	if err != nil {
		return nil, fmt.Errorf("lookup reset token: %w", err)
	}
	if u.ResetTokenExpiry == nil {
		return nil, ErrInvalidResetToken
	}
	return &models.ResetTokenStatus{
		Valid:     true,
		Email:     utils.MaskEmail(u.Email),
		ExpiresAt: *u.ResetTokenExpiry,
	}, nil
}

// Redeem replaces the password of the token holder and consumes the token in
// one conditional update.
func (s *PasswordService) Redeem(ctx context.Context, token string, in *models.RedeemPasswordRequest) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if token == "" {
		return ErrInvalidResetToken
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	u, err := s.repo.RedeemResetToken(ctx, utils.HashResetToken(token), hashed, now)
	if errors.Is(err, repository.ErrNotFound) {
		logger.WithCtx(ctx).Warn("Invalid or expired reset token (service)")
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("redeem reset token: %w", err)
	}

	logger.WithCtx(ctx).Info("Password reset completed (service)", zap.Int64("target_id", u.ID))
	s.enqueue(EmailJob{
		To:      []string{u.Email},
		Subject: "Password changed | تم تغيير كلمة المرور",
		Body:    helpers.BuildPasswordChangedHTML(now),
		IsHTML:  true,
	})
	return nil
}
