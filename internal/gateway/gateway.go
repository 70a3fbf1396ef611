// Package gateway is the remote store boundary: document CRUD backed by
// PostgreSQL with full-collection push over the redis feed. Each successful
// write re-publishes the authoritative collection state, which is what the
// synchronizers reconcile against.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	stdsync "sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"controlx/internal/models"
	"controlx/internal/repositories"
	"controlx/internal/utils"
)

const (
	collectionEvents = "events"
	collectionNotes  = "notes"
)

var ErrPasswordRequired = errors.New("password is required to create a user")

// Feed is the snapshot broadcast channel, satisfied by feed.Feed.
type Feed interface {
	Publish(ctx context.Context, collection string, snapshot any) error
	Subscribe(ctx context.Context, collection string) (<-chan []byte, func(), error)
}

type Gateway struct {
	events repositories.EventRepository
	users  repositories.UserRepository
	notes  repositories.NoteRepository
	feed   Feed
	log    *zap.Logger
}

func New(
	events repositories.EventRepository,
	users repositories.UserRepository,
	notes repositories.NoteRepository,
	f Feed,
	log *zap.Logger,
) *Gateway {
	return &Gateway{events: events, users: users, notes: notes, feed: f, log: log}
}

// --- events ---

func (g *Gateway) CreateEvent(ctx context.Context, ev models.Event) (string, error) {
	id, err := g.events.Create(ctx, ev)
	if err != nil {
		return "", err
	}
	g.publishEvents(ctx)
	return id, nil
}

func (g *Gateway) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error {
	if err := g.events.Update(ctx, id, patch); err != nil {
		return err
	}
	g.publishEvents(ctx)
	return nil
}

func (g *Gateway) DeleteEvent(ctx context.Context, id string) error {
	if err := g.events.Delete(ctx, id); err != nil {
		return err
	}
	g.publishEvents(ctx)
	return nil
}

func (g *Gateway) ListEvents(ctx context.Context) ([]models.Event, error) {
	return g.events.List(ctx)
}

// SubscribeEvents delivers the current collection immediately, then every
// snapshot published after a write. The cancel handle frees the relay even
// when the subscriber stops reading before draining the channel.
func (g *Gateway) SubscribeEvents(ctx context.Context) (<-chan []models.Event, func(), error) {
	raw, cancelFeed, err := g.feed.Subscribe(ctx, collectionEvents)
	if err != nil {
		return nil, nil, err
	}
	initial, err := g.events.List(ctx)
	if err != nil {
		cancelFeed()
		return nil, nil, err
	}

	done := make(chan struct{})
	var once stdsync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			cancelFeed()
		})
	}

	out := make(chan []models.Event)
	go func() {
		defer close(out)
		select {
		case out <- initial:
		case <-done:
			return
		}
		for payload := range raw {
			var snapshot []models.Event
			if err := json.Unmarshal(payload, &snapshot); err != nil {
				g.log.Warn("bad events snapshot payload", zap.Error(err))
				continue
			}
			select {
			case out <- snapshot:
			case <-done:
				return
			}
		}
	}()
	return out, cancel, nil
}

// publishEvents broadcasts the post-write collection state. A failed publish
// is logged, not surfaced: the write itself already committed.
func (g *Gateway) publishEvents(ctx context.Context) {
	snapshot, err := g.events.List(ctx)
	if err != nil {
		g.log.Warn("failed to load events snapshot for publish", zap.Error(err))
		return
	}
	if err := g.feed.Publish(ctx, collectionEvents, snapshot); err != nil {
		g.log.Warn("failed to publish events snapshot", zap.Error(err))
	}
}

// --- users ---

func (g *Gateway) ListUsers(ctx context.Context) ([]models.User, error) {
	return g.users.List(ctx)
}

func (g *Gateway) GetUser(ctx context.Context, id string) (*models.User, error) {
	return g.users.GetByID(ctx, id)
}

// CreateUser registers the credential and the profile document together.
// Email and password are consumed here; the stored profile never carries
// them.
func (g *Gateway) CreateUser(ctx context.Context, input models.NewUserInput) (models.User, error) {
	if input.Password == "" {
		return models.User{}, ErrPasswordRequired
	}
	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:   uuid.New().String(),
		Name: input.Name,
		Role: input.Role,
	}
	if err := g.users.Create(ctx, &user, input.Email, hash); err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (g *Gateway) UpdateUser(ctx context.Context, id string, patch models.UserPatch) error {
	return g.users.Update(ctx, id, patch)
}

func (g *Gateway) DeleteUser(ctx context.Context, id string) error {
	return g.users.Delete(ctx, id)
}

// --- notes ---

// GetNote returns nil without error when no note exists for the date, the
// "document absent" case the editor treats as an empty buffer.
func (g *Gateway) GetNote(ctx context.Context, date string) (*models.Note, error) {
	note, err := g.notes.GetByDate(ctx, date)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return note, err
}

func (g *Gateway) UpsertNote(ctx context.Context, date, content string) error {
	if err := g.notes.Upsert(ctx, date, content); err != nil {
		return err
	}
	g.publishNotes(ctx)
	return nil
}

func (g *Gateway) SubscribeNotes(ctx context.Context) (<-chan map[string]models.Note, func(), error) {
	raw, cancelFeed, err := g.feed.Subscribe(ctx, collectionNotes)
	if err != nil {
		return nil, nil, err
	}
	initial, err := g.notes.List(ctx)
	if err != nil {
		cancelFeed()
		return nil, nil, err
	}

	done := make(chan struct{})
	var once stdsync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			cancelFeed()
		})
	}

	out := make(chan map[string]models.Note)
	go func() {
		defer close(out)
		select {
		case out <- initial:
		case <-done:
			return
		}
		for payload := range raw {
			var snapshot map[string]models.Note
			if err := json.Unmarshal(payload, &snapshot); err != nil {
				g.log.Warn("bad notes snapshot payload", zap.Error(err))
				continue
			}
			select {
			case out <- snapshot:
			case <-done:
				return
			}
		}
	}()
	return out, cancel, nil
}

func (g *Gateway) publishNotes(ctx context.Context) {
	snapshot, err := g.notes.List(ctx)
	if err != nil {
		g.log.Warn("failed to load notes snapshot for publish", zap.Error(err))
		return
	}
	if err := g.feed.Publish(ctx, collectionNotes, snapshot); err != nil {
		g.log.Warn("failed to publish notes snapshot", zap.Error(err))
	}
}
