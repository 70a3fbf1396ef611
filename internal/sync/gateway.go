// Package sync keeps local cached copies of the remote collections,
// applying optimistic mutations before remote confirmation and reconciling
// with full-state subscription pushes.
package sync

import (
	"context"

	"controlx/internal/models"
)

// EventStore is the write side of the remote events collection. Ids are
// assigned by the store on create; updated_at is always stamped remotely.
type EventStore interface {
	CreateEvent(ctx context.Context, ev models.Event) (string, error)
	UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error
	DeleteEvent(ctx context.Context, id string) error
}

// EventFeed delivers the complete current events collection on every change.
// The returned cancel func must be safe to call more than once; after
// cancellation the channel is closed and no further snapshots arrive.
type EventFeed interface {
	SubscribeEvents(ctx context.Context) (<-chan []models.Event, func(), error)
}

// UserStore backs the admin user directory. Users are fetched on demand,
// not subscription-driven.
type UserStore interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, input models.NewUserInput) (models.User, error)
	UpdateUser(ctx context.Context, id string, patch models.UserPatch) error
	DeleteUser(ctx context.Context, id string) error
}

// NoteFeed delivers the complete notes collection, keyed by date.
type NoteFeed interface {
	SubscribeNotes(ctx context.Context) (<-chan map[string]models.Note, func(), error)
}
