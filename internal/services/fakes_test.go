package services_test

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/isdelr/ender-auth-be/internal/models"
	"github.com/isdelr/ender-auth-be/internal/store"
)

// memStore is an in-memory store.UserStore.
type memStore struct {
	mu      sync.Mutex
	users   []models.User
	err     error // returned by every call when set
	dupOnce bool  // the next Insert reports a duplicate email
}

func (m *memStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *memStore) FindByID(_ context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (m *memStore) Insert(_ context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.User{}, m.err
	}
	if m.dupOnce {
		m.dupOnce = false
		return models.User{}, store.ErrDuplicateEmail
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.User{}, store.ErrDuplicateEmail
		}
	}
	user.ID = "u-" + strconv.Itoa(len(m.users)+1)
	m.users = append(m.users, user)
	return user, nil
}

func (m *memStore) FindAll(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if len(m.users) == 0 {
		return nil, nil
	}
	return append([]models.User(nil), m.users...), nil
}

type fakeSigner struct {
	err error
}

func (f fakeSigner) Issue(userID, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + userID + "-" + email, nil
}

type fakeRecorder struct {
	logins  []string
	signups []string
}

func (r *fakeRecorder) RecordLogin(outcome string)  { r.logins = append(r.logins, outcome) }
func (r *fakeRecorder) RecordSignup(outcome string) { r.signups = append(r.signups, outcome) }

var errDB = errors.New("connection refused")
