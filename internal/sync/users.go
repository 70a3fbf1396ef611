package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"controlx/internal/models"
)

// UserAdmin maintains the admin page's user directory. Unlike events, users
// are not subscription-driven: the list is fetched on demand and refetched
// after every mutation.
type UserAdmin struct {
	store UserStore

	mu      stdsync.Mutex
	users   []models.User
	lastErr error
}

func NewUserAdmin(store UserStore) *UserAdmin {
	return &UserAdmin{store: store}
}

// Refresh replaces the cached directory with the remote list.
func (a *UserAdmin) Refresh(ctx context.Context) error {
	users, err := a.store.ListUsers(ctx)
	if err != nil {
		wrapped := fmt.Errorf("%w: list users: %v", ErrRemoteRead, err)
		a.setErr(wrapped)
		return wrapped
	}

	a.mu.Lock()
	a.users = users
	a.lastErr = nil
	a.mu.Unlock()
	return nil
}

// Create registers the account and its profile document, then refetches.
// Email and password are consumed here and never cached.
func (a *UserAdmin) Create(ctx context.Context, input models.NewUserInput) error {
	if _, err := a.store.CreateUser(ctx, input); err != nil {
		wrapped := fmt.Errorf("%w: create user: %v", ErrRemoteWrite, err)
		a.setErr(wrapped)
		return wrapped
	}
	return a.Refresh(ctx)
}

func (a *UserAdmin) Update(ctx context.Context, id string, patch models.UserPatch) error {
	if err := a.store.UpdateUser(ctx, id, patch); err != nil {
		wrapped := fmt.Errorf("%w: update user: %v", ErrRemoteWrite, err)
		a.setErr(wrapped)
		return wrapped
	}
	return a.Refresh(ctx)
}

func (a *UserAdmin) Remove(ctx context.Context, id string) error {
	if err := a.store.DeleteUser(ctx, id); err != nil {
		wrapped := fmt.Errorf("%w: delete user: %v", ErrRemoteWrite, err)
		a.setErr(wrapped)
		return wrapped
	}
	return a.Refresh(ctx)
}

// Users returns a copy of the cached directory.
func (a *UserAdmin) Users() []models.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.User, len(a.users))
	copy(out, a.users)
	return out
}

func (a *UserAdmin) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

func (a *UserAdmin) setErr(err error) {
	a.mu.Lock()
	a.lastErr = err
	a.mu.Unlock()
}
