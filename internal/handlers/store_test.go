package handlers

import (
	"context"
	"time"

	"minbar/internal/models"
	"minbar/internal/repository"
)

// userStore is a map-backed stand-in for repository.UserRepository.
type userStore struct {
	nextID int64
	users  map[int64]*models.User
}

func newUserStore() *userStore {
	return &userStore{nextID: 1, users: map[int64]*models.User{}}
}

func (s *userStore) byEmail(email string) *models.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *userStore) IsEmailTaken(_ context.Context, email string) (bool, error) {
	return s.byEmail(email) != nil, nil
}

func (s *userStore) CreateUser(_ context.Context, u *models.User) error {
	if s.byEmail(u.Email) != nil {
		return repository.ErrDuplicate
	}
	u.ID = s.nextID
	s.nextID++
	c := *u
	s.users[u.ID] = &c
	return nil
}

func (s *userStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u := s.byEmail(email); u != nil {
		c := *u
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (s *userStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (s *userStore) ListUsersPaginated(_ context.Context, limit, offset int, _ string) ([]*models.User, int, error) {
	out := []*models.User{}
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	total := len(out)
	if offset > total {
		offset = total
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (s *userStore) UpdateUserFields(_ context.Context, id int64, in *models.UpdateUserRequest, now time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if in.Email != nil {
		if other := s.byEmail(*in.Email); other != nil && other.ID != id {
			return repository.ErrDuplicate
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = in.Name
	}
	if in.PasswordHash != nil {
		u.PasswordHash = *in.PasswordHash
	}
	u.UpdatedAt = now
	return nil
}

func (s *userStore) SetResetToken(_ context.Context, id int64, hash string, expiry, _ time.Time) error {
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetToken, u.ResetTokenExpiry = &hash, &expiry
	return nil
}

func (s *userStore) ClearResetTokenIf(_ context.Context, id int64, hash string) (bool, error) {
	u, ok := s.users[id]
	if !ok || u.ResetToken == nil || *u.ResetToken != hash {
		return false, nil
	}
	u.ResetToken, u.ResetTokenExpiry = nil, nil
	return true, nil
}

func (s *userStore) live(hash string, now time.Time) *models.User {
	for _, u := range s.users {
		if u.ResetToken != nil && *u.ResetToken == hash && u.ResetTokenExpiry.After(now) {
			return u
		}
	}
	return nil
}

func (s *userStore) FindByResetToken(_ context.Context, hash string, now time.Time) (*models.User, error) {
	if u := s.live(hash, now); u != nil {
		c := *u
		return &c, nil
	}
	return nil, repository.ErrNotFound
}

func (s *userStore) RedeemResetToken(_ context.Context, hash, pw string, now time.Time) (*models.User, error) {
	u := s.live(hash, now)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	u.PasswordHash = pw
	u.ResetToken, u.ResetTokenExpiry = nil, nil
	c := *u
	return &c, nil
}

// captureNotifier keeps the last token it was asked to deliver.
type captureNotifier struct {
	email, token string
	err          error
}

func (n *captureNotifier) SendResetPasswordEmail(_ context.Context, email, token string) error {
	n.email, n.token = email, token
	return n.err
}
