package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"controlx/internal/models"
)

// NotesView is the calendar's read model over the notes collection: a live
// date-keyed map refreshed wholesale on every push.
type NotesView struct {
	feed NoteFeed

	mu      stdsync.Mutex
	notes   map[string]models.Note
	stopped bool
}

func NewNotesView(feed NoteFeed) *NotesView {
	return &NotesView{feed: feed, notes: make(map[string]models.Note)}
}

// Subscribe opens the all-notes feed. The handle is idempotent; after it
// runs no further pushes are applied.
func (v *NotesView) Subscribe(ctx context.Context) (func(), error) {
	ch, cancel, err := v.feed.SubscribeNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: subscribe notes: %v", ErrRemoteRead, err)
	}

	go func() {
		for snapshot := range ch {
			next := make(map[string]models.Note, len(snapshot))
			for date, note := range snapshot {
				next[date] = note
			}
			v.mu.Lock()
			if !v.stopped {
				v.notes = next
			}
			v.mu.Unlock()
		}
	}()

	var once stdsync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			v.stopped = true
			v.mu.Unlock()
			cancel()
		})
	}, nil
}

// Note returns the note for a YYYY-MM-DD date key, if one exists.
func (v *NotesView) Note(date string) (models.Note, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n, ok := v.notes[date]
	return n, ok
}

// All returns a copy of the current date-keyed map.
func (v *NotesView) All() map[string]models.Note {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]models.Note, len(v.notes))
	for date, note := range v.notes {
		out[date] = note
	}
	return out
}
