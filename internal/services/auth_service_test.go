package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"controlx/internal/models"
	"controlx/internal/repositories"
	"controlx/internal/utils"
)

type fakeUserRepo struct {
	users map[string]models.User          // by id
	creds map[string]repositories.Credentials // by email
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users: map[string]models.User{},
		creds: map[string]repositories.Credentials{},
	}
}

func (f *fakeUserRepo) addUser(t *testing.T, id, name, email, password string) {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	f.users[id] = models.User{ID: id, Name: name, Role: models.RoleUser}
	f.creds[email] = repositories.Credentials{UserID: id, Email: email, PasswordHash: hash}
}

func (f *fakeUserRepo) Create(context.Context, *models.User, string, string) error { return nil }
func (f *fakeUserRepo) Update(context.Context, string, models.UserPatch) error     { return nil }
func (f *fakeUserRepo) Delete(context.Context, string) error                       { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetCredentials(_ context.Context, email string) (*repositories.Credentials, error) {
	c, ok := f.creds[email]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (f *fakeUserRepo) List(context.Context) ([]models.User, error) { return nil, nil }

func newTestAuth(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	return NewAuthService(repo, "test-secret", time.Hour), repo
}

func TestAuthService_Login_OK(t *testing.T) {
	svc, repo := newTestAuth(t)
	repo.addUser(t, "u-1", "Ana", "ana@example.com", "password123")

	resp, err := svc.Login(context.Background(), "ana@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "u-1", resp.User.ID)
	assert.Equal(t, "Ana", resp.User.Name)
	assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)
}

func TestAuthService_Login_WrongPasswordAndUnknownEmailIndistinguishable(t *testing.T) {
	svc, repo := newTestAuth(t)
	repo.addUser(t, "u-1", "Ana", "ana@example.com", "password123")

	_, errWrongPass := svc.Login(context.Background(), "ana@example.com", "nope12345")
	_, errNoUser := svc.Login(context.Background(), "ghost@example.com", "password123")

	require.ErrorIs(t, errWrongPass, ErrInvalidCredentials)
	require.ErrorIs(t, errNoUser, ErrInvalidCredentials)
	assert.Equal(t, errWrongPass.Error(), errNoUser.Error())
}

func TestAuthService_TokenRoundtrip(t *testing.T) {
	svc, repo := newTestAuth(t)
	repo.addUser(t, "u-1", "Ana", "ana@example.com", "password123")

	resp, err := svc.Login(context.Background(), "ana@example.com", "password123")
	require.NoError(t, err)

	userID, err := svc.VerifyToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
}

func TestAuthService_VerifyToken_Invalid(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.VerifyToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_VerifyToken_WrongSecret(t *testing.T) {
	svc, repo := newTestAuth(t)
	repo.addUser(t, "u-1", "Ana", "ana@example.com", "password123")

	resp, err := svc.Login(context.Background(), "ana@example.com", "password123")
	require.NoError(t, err)

	other := NewAuthService(repo, "different-secret", time.Hour)
	_, err = other.VerifyToken(resp.Token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Profile(t *testing.T) {
	svc, repo := newTestAuth(t)
	repo.addUser(t, "u-1", "Ana", "ana@example.com", "password123")

	user, err := svc.Profile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = svc.Profile(context.Background(), "missing")
	require.ErrorIs(t, err, repositories.ErrNotFound)
}
