package repositories

import (
	"context"
	"errors"

	"controlx/internal/models"
)

var ErrNotFound = errors.New("not found")

type EventRepository interface {
	Create(ctx context.Context, ev models.Event) (string, error)
	Update(ctx context.Context, id string, patch models.EventPatch) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User, email, passwordHash string) error
	Update(ctx context.Context, id string, patch models.UserPatch) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetCredentials(ctx context.Context, email string) (*Credentials, error)
	List(ctx context.Context) ([]models.User, error)
}

type NoteRepository interface {
	Upsert(ctx context.Context, date, content string) error
	GetByDate(ctx context.Context, date string) (*models.Note, error)
	List(ctx context.Context) (map[string]models.Note, error)
}
