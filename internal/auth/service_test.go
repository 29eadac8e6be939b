package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anna-sampada/spoilage-backend/internal/common"
	"github.com/anna-sampada/spoilage-backend/internal/repository"
)

type fakeUserRepo struct {
	users map[string]*repository.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*repository.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, email, passwordHash, role string) (*repository.User, error) {
	u := &repository.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, Role: role}
	f.users[email] = u
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*repository.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Exists(_ context.Context, email string) (bool, error) {
	_, ok := f.users[email]
	return ok, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(repo, logger), repo
}

func TestSignup(t *testing.T) {
	s, repo := newTestService()

	acct, err := s.Signup(context.Background(), "Donor@Example.com", "hunter2", "")
	require.NoError(t, err)

	assert.Equal(t, "donor@example.com", acct.Email)
	assert.Equal(t, "user", acct.Role)

	stored := repo.users["donor@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2", stored.PasswordHash, "password must be hashed before storage")
}

func TestSignupDuplicate(t *testing.T) {
	s, _ := newTestService()

	_, err := s.Signup(context.Background(), "a@b.c", "pw", "user")
	require.NoError(t, err)

	_, err = s.Signup(context.Background(), "a@b.c", "pw2", "user")
	require.Error(t, err)
	assert.True(t, common.IsValidation(err))
	assert.Contains(t, err.Error(), "User with this email already exists")
}

func TestSignupValidation(t *testing.T) {
	s, _ := newTestService()

	tests := []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"missing email", "", "pw", "user"},
		{"missing password", "a@b.c", "", "user"},
		{"unknown role", "a@b.c", "pw", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Signup(context.Background(), tt.email, tt.password, tt.role)
			require.Error(t, err)
			assert.True(t, common.IsValidation(err))
		})
	}
}

func TestSignupNGORole(t *testing.T) {
	s, _ := newTestService()

	acct, err := s.Signup(context.Background(), "ngo@b.c", "pw", "ngo")
	require.NoError(t, err)
	assert.Equal(t, "ngo", acct.Role)
}

func TestLogin(t *testing.T) {
	s, _ := newTestService()

	_, err := s.Signup(context.Background(), "a@b.c", "correct horse", "user")
	require.NoError(t, err)

	acct, err := s.Login(context.Background(), "a@b.c", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", acct.Email)

	// email lookup is case-insensitive
	acct, err = s.Login(context.Background(), "A@B.C", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", acct.Email)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, _ := newTestService()

	_, err := s.Signup(context.Background(), "a@b.c", "pw", "user")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "a@b.c", "not it"},
		{"unknown email", "nobody@b.c", "pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			// unknown email and wrong password are indistinguishable
			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "Invalid email or password", appErr.Message)
		})
	}
}
