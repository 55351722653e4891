package services

import (
	"context"
	"sync"
	"time"

	"minbar/internal/models"
	"minbar/internal/repository"
)

// memUsers mimics the SQL semantics of repository.UserRepository, including
// the conditional updates on the reset token columns.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: map[int64]*models.User{}}
}

func clone(u *models.User) *models.User {
	c := *u
	if u.ResetToken != nil {
		t := *u.ResetToken
		c.ResetToken = &t
	}
	if u.ResetTokenExpiry != nil {
		e := *u.ResetTokenExpiry
		c.ResetTokenExpiry = &e
	}
	return &c
}

func (m *memUsers) count(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.byID {
		if u.Email == email {
			n++
		}
	}
	return n
}

func (m *memUsers) get(id int64) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.byID[id])
}

func (m *memUsers) IsEmailTaken(_ context.Context, email string) (bool, error) {
	return m.count(email) > 0, nil
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.byID[u.ID] = clone(u)
	return nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return clone(u), nil
}

func (m *memUsers) ListUsersPaginated(_ context.Context, limit, offset int, _ string) ([]*models.User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.User{}
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.byID[id]; ok {
			out = append(out, clone(u))
		}
	}
	total := len(out)
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memUsers) UpdateUserFields(_ context.Context, id int64, in *models.UpdateUserRequest, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	if in.Email != nil {
		for _, x := range m.byID {
			if x.ID != id && x.Email == *in.Email {
				return repository.ErrDuplicate
			}
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		n := *in.Name
		u.Name = &n
	}
	if in.PasswordHash != nil {
		u.PasswordHash = *in.PasswordHash
	}
	u.UpdatedAt = now
	return nil
}

func (m *memUsers) SetResetToken(_ context.Context, id int64, hash string, expiry, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ResetToken, u.ResetTokenExpiry = &hash, &expiry
	return nil
}

func (m *memUsers) ClearResetTokenIf(_ context.Context, id int64, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok || u.ResetToken == nil || *u.ResetToken != hash {
		return false, nil
	}
	u.ResetToken, u.ResetTokenExpiry = nil, nil
	return true, nil
}

func (m *memUsers) match(hash string, now time.Time) *models.User {
	for _, u := range m.byID {
		if u.ResetToken != nil && *u.ResetToken == hash && u.ResetTokenExpiry != nil && u.ResetTokenExpiry.After(now) {
			return u
		}
	}
	return nil
}

func (m *memUsers) FindByResetToken(_ context.Context, hash string, now time.Time) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.match(hash, now); u != nil {
		return clone(u), nil
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) RedeemResetToken(_ context.Context, hash, pw string, now time.Time) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.match(hash, now)
	if u == nil {
		return nil, repository.ErrNotFound
	}
	u.PasswordHash = pw
	u.ResetToken, u.ResetTokenExpiry = nil, nil
	u.UpdatedAt = now
	return clone(u), nil
}

type notifyCall struct {
	Email string
	Token string
}

// fakeNotifier records calls and answers with fn, or nil when fn is unset.
type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	fn    func(ctx context.Context, email, token string) error
}

func (f *fakeNotifier) SendResetPasswordEmail(ctx context.Context, email, token string) error {
	f.mu.Lock()
	f.calls = append(f.calls, notifyCall{email, token})
	fn := f.fn
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, email, token)
	}
	return nil
}

func (f *fakeNotifier) last() notifyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return notifyCall{}
	}
	return f.calls[len(f.calls)-1]
}
