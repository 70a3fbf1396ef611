package sync

import (
	"context"
	"fmt"
	"sort"
	stdsync "sync"
	"time"

	"go.uber.org/zap"

	"controlx/internal/models"
)

// EventSync owns the local copy of the events collection. All reads served
// to callers come from here; the remote store stays the durable source of
// truth and wins on every subscription push.
type EventSync struct {
	store EventStore
	feed  EventFeed
	log   *zap.Logger
	now   func() time.Time

	mu      stdsync.Mutex
	events  []models.Event
	lastErr error
	actor   string
	stopped bool
}

func NewEventSync(store EventStore, feed EventFeed, log *zap.Logger) *EventSync {
	return &EventSync{
		store: store,
		feed:  feed,
		log:   log,
		now:   time.Now,
	}
}

// SetActor records the signed-in user on whose behalf creates are issued.
// An empty id signs the synchronizer out.
func (s *EventSync) SetActor(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actor = userID
}

// Subscribe opens the live feed and starts applying pushes. The returned
// handle stops the feed; it is safe to call repeatedly, and no local state
// changes happen after it runs.
func (s *EventSync) Subscribe(ctx context.Context) (func(), error) {
	ch, cancel, err := s.feed.SubscribeEvents(ctx)
	if err != nil {
		wrapped := fmt.Errorf("%w: subscribe events: %v", ErrRemoteRead, err)
		s.mu.Lock()
		s.lastErr = wrapped
		s.mu.Unlock()
		return nil, wrapped
	}

	go func() {
		for snapshot := range ch {
			s.applySnapshot(snapshot)
		}
	}()

	var once stdsync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.stopped = true
			s.mu.Unlock()
			cancel()
		})
	}, nil
}

// applySnapshot full-replaces local state with the pushed collection,
// ordered by updated_at descending. Pushes are authoritative: an optimistic
// write still in flight may be overwritten and flicker back on the next
// push. That window is accepted, not a defect. A snapshot that was already
// in flight when the handle was cancelled is discarded.
func (s *EventSync) applySnapshot(snapshot []models.Event) {
	next := make([]models.Event, len(snapshot))
	for i, ev := range snapshot {
		next[i] = ev.Clone()
	}
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].UpdatedAt.After(next[j].UpdatedAt)
	})

	s.mu.Lock()
	if !s.stopped {
		s.events = next
	}
	s.mu.Unlock()
}

// Create inserts a provisional record under a temporary id, then issues the
// remote create. The authoritative record arrives on the next push; on
// failure the provisional record is removed and the error recorded.
func (s *EventSync) Create(ctx context.Context, ev models.Event) error {
	s.mu.Lock()
	if s.actor == "" {
		s.lastErr = ErrUnauthenticated
		s.mu.Unlock()
		return ErrUnauthenticated
	}
	actor := s.actor
	tempID := fmt.Sprintf("temp-%d", s.now().UnixMilli())

	provisional := ev.Clone()
	provisional.ID = tempID
	provisional.CreatedBy = actor
	provisional.UpdatedAt = s.now()
	s.events = append([]models.Event{provisional}, s.events...)
	s.mu.Unlock()

	ev.CreatedBy = actor
	if _, err := s.store.CreateEvent(ctx, ev); err != nil {
		wrapped := fmt.Errorf("%w: create event: %v", ErrRemoteWrite, err)
		s.mu.Lock()
		s.removeLocked(tempID)
		s.lastErr = wrapped
		s.mu.Unlock()
		return wrapped
	}

	s.clearErr()
	return nil
}

// Update applies the patch locally with a fresh local timestamp, then issues
// the remote update. On failure the entire pre-mutation snapshot is restored
// verbatim. An unknown id is a silent no-op.
func (s *EventSync) Update(ctx context.Context, id string, patch models.EventPatch) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		s.log.Debug("update for unknown event id ignored", zap.String("id", id))
		return nil
	}
	snapshot := s.snapshotLocked()
	updated := s.events[idx].Clone()
	updated.Apply(patch)
	updated.UpdatedAt = s.now()
	s.events[idx] = updated
	s.mu.Unlock()

	if err := s.store.UpdateEvent(ctx, id, patch); err != nil {
		wrapped := fmt.Errorf("%w: update event: %v", ErrRemoteWrite, err)
		s.mu.Lock()
		s.events = snapshot
		s.lastErr = wrapped
		s.mu.Unlock()
		return wrapped
	}

	s.clearErr()
	return nil
}

// Remove drops the record locally, then issues the remote delete, restoring
// the prior snapshot on failure. An unknown id is a silent no-op.
func (s *EventSync) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		s.log.Debug("remove for unknown event id ignored", zap.String("id", id))
		return nil
	}
	snapshot := s.snapshotLocked()
	s.removeLocked(id)
	s.mu.Unlock()

	if err := s.store.DeleteEvent(ctx, id); err != nil {
		wrapped := fmt.Errorf("%w: delete event: %v", ErrRemoteWrite, err)
		s.mu.Lock()
		s.events = snapshot
		s.lastErr = wrapped
		s.mu.Unlock()
		return wrapped
	}

	s.clearErr()
	return nil
}

// Events returns a detached copy of the local collection, newest first.
func (s *EventSync) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Err reports the last failed operation. Successful operations clear it.
func (s *EventSync) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *EventSync) clearErr() {
	s.mu.Lock()
	s.lastErr = nil
	s.mu.Unlock()
}

func (s *EventSync) indexLocked(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *EventSync) removeLocked(id string) {
	if idx := s.indexLocked(id); idx >= 0 {
		s.events = append(s.events[:idx], s.events[idx+1:]...)
	}
}

func (s *EventSync) snapshotLocked() []models.Event {
	out := make([]models.Event, len(s.events))
	for i, ev := range s.events {
		out[i] = ev.Clone()
	}
	return out
}
