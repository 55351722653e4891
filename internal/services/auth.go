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
	"minbar/internal/validation"

	"go.uber.org/zap"
)

type UserRepo interface {
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsersPaginated(ctx context.Context, limit, offset int, search string) ([]*models.User, int, error)
	UpdateUserFields(ctx context.Context, id int64, input *models.UpdateUserRequest, now time.Time) error
}

type AuthService struct {
	repo       UserRepo
	jwtSecret  string
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(repo UserRepo, jwtSecret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{repo: repo, jwtSecret: jwtSecret, sessionTTL: sessionTTL, now: time.Now}
}

// Register creates an ADMIN account. The email must not be registered yet.
func (s *AuthService) Register(ctx context.Context, in *models.RegisterRequest) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	logger.Log.Info("Registering user (service)", zap.String("email", utils.MaskEmail(in.Email)))

	taken, err := s.repo.IsEmailTaken(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hashed, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Log.Info("User registered (service)", zap.Int64("user_id", u.ID))
	return u, nil
}

// VerifyCredentials returns the identity for a matching email/password pair.
// Unknown emails and wrong passwords both yield ErrInvalidCredentials after a
// bcrypt comparison.
func (s *AuthService) VerifyCredentials(ctx context.Context, in *models.LoginRequest) (models.Identity, error) {
	if err := validation.Struct(in); err != nil {
		return models.Identity{}, err
	}

	u, err := s.repo.GetUserByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		utils.BurnPasswordCheck(in.Password)
		logger.Log.Warn("Login failed (service)", zap.String("email", utils.MaskEmail(in.Email)))
		return models.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	if !utils.CheckPasswordHash(in.Password, u.PasswordHash) {
		logger.Log.Warn("Login failed (service)", zap.String("email", utils.MaskEmail(in.Email)))
		return models.Identity{}, ErrInvalidCredentials
	}
	return u.Identity(), nil
}

// Login verifies the credentials and mints a session token for them.
func (s *AuthService) Login(ctx context.Context, in *models.LoginRequest) (string, time.Time, models.Identity, error) {
	id, err := s.VerifyCredentials(ctx, in)
	if err != nil {
		return "", time.Time{}, models.Identity{}, err
	}

	token, exp, err := utils.GenerateSessionToken(s.jwtSecret, id, s.sessionTTL, s.now())
	if err != nil {
		return "", time.Time{}, models.Identity{}, fmt.Errorf("issue session: %w", err)
	}

	logger.Log.Info("Login succeeded (service)", zap.Int64("user_id", id.ID))
	return token, exp, id, nil
}

// ParseSession decodes a session token. Any problem with the token means
// there is no session, so nil is returned rather than an error.
func (s *AuthService) ParseSession(token string) *models.Session {
	if token == "" {
		return nil
	}
	sess, err := utils.ParseSessionToken(s.jwtSecret, token, s.now())
	if err != nil {
		logger.Log.Debug("Ignoring invalid session token", zap.Error(err))
		return nil
	}
	return sess
}

func (s *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return u, err
}

// UpdateProfile applies a partial update to the user's own account and
// returns the stored result.
func (s *AuthService) UpdateProfile(ctx context.Context, id int64, in *models.UpdateProfileRequest) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	upd := &models.UpdateUserRequest{Name: in.Name, Email: in.Email}
	if in.Email != nil || in.NewPassword != nil {
		u, err := s.GetUser(ctx, id)
		if err != nil {
			return nil, err
		}
		if !utils.CheckPasswordHash(in.CurrentPassword, u.PasswordHash) {
			return nil, validation.NewError("currentPassword", "is incorrect")
		}
	}
	if in.NewPassword != nil {
		hashed, err := utils.HashPassword(*in.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		upd.PasswordHash = &hashed
	}

	err := s.repo.UpdateUserFields(ctx, id, upd, s.now())
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, ErrEmailTaken
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}

	logger.Log.Info("Profile updated (service)", zap.Int64("user_id", id), zap.Bool("password", upd.PasswordHash != nil))
	return s.GetUser(ctx, id)
}

func (s *AuthService) ListUsers(ctx context.Context, page, pageSize int, search string) (*models.Page[*models.User], error) {
	page, pageSize = NormalizePage(page, pageSize)
	users, total, err := s.repo.ListUsersPaginated(ctx, pageSize, (page-1)*pageSize, search)
	if err != nil {
		return nil, err
	}
	return &models.Page[*models.User]{Items: users, Total: total, Page: page, PageSize: pageSize}, nil
}

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// NormalizePage clamps page to >= 1 and pageSize to 1..MaxPageSize.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
