// Package notes implements the per-day note editor: a local typing buffer
// with a debounced remote commit and a three-state sync indicator.
package notes

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"controlx/internal/models"
)

// Store is the slice of the remote gateway the editor needs. Upsert carries
// the full buffer content and merges into any existing document.
type Store interface {
	GetNote(ctx context.Context, date string) (*models.Note, error)
	UpsertNote(ctx context.Context, date, content string) error
}

type Status string

const (
	StatusSynced   Status = "synced"   // buffer matches last known remote content
	StatusUnsynced Status = "unsynced" // edits not yet scheduled or committed
	StatusSyncing  Status = "syncing"  // a commit is in flight
)

const (
	defaultDelay  = time.Second
	commitTimeout = 10 * time.Second
)

// Editor binds a text buffer to one date's note at a time. Edits update the
// buffer immediately; persistence is debounced. A failed commit leaves the
// editor Unsynced and re-arms the debounce, so the edit is retried rather
// than silently lost.
type Editor struct {
	store Store
	log   *zap.Logger
	delay time.Duration

	mu     sync.Mutex
	date   string
	buffer string
	remote string
	status Status
	timer  *time.Timer
	gen    int // bumped on date switch; stale timers and commits check it
}

func NewEditor(store Store, delay time.Duration, log *zap.Logger) *Editor {
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Editor{store: store, log: log, delay: delay, status: StatusSynced}
}

// SetDate rebinds the editor. Any pending debounce for the previous date is
// cancelled first, so its content can neither commit late nor land under the
// new date's key. The new date's existing content (or an empty buffer) loads
// without triggering a write.
func (e *Editor) SetDate(ctx context.Context, date string) error {
	e.mu.Lock()
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.date = date
	e.mu.Unlock()

	note, err := e.store.GetNote(ctx, date)
	if err != nil {
		return fmt.Errorf("load note %s: %w", date, err)
	}
	content := ""
	if note != nil {
		content = note.Content
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.date != date {
		return nil // rebound again while loading
	}
	e.buffer = content
	e.remote = content
	e.status = StatusSynced
	return nil
}

// SetContent records a keystroke: the buffer updates immediately and the
// debounce window restarts. Only persistence is debounced, never display.
func (e *Editor) SetContent(content string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.buffer = content
	e.status = StatusUnsynced

	if e.timer != nil {
		e.timer.Stop()
	}
	gen := e.gen
	e.timer = time.AfterFunc(e.delay, func() { e.commit(gen) })
}

// commit runs after a quiet period. It is a no-op if the editor was rebound
// since the timer was armed, or if the buffer already matches the remote.
func (e *Editor) commit(gen int) {
	e.mu.Lock()
	if gen != e.gen {
		e.mu.Unlock()
		return
	}
	if e.buffer == e.remote {
		e.status = StatusSynced
		e.mu.Unlock()
		return
	}
	date := e.date
	content := e.buffer
	e.status = StatusSyncing
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()
	err := e.store.UpsertNote(ctx, date, content)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.gen {
		return
	}
	if err != nil {
		// Stay unsynced and retry after another quiet period.
		e.log.Warn("note commit failed, will retry",
			zap.String("date", date), zap.Error(err))
		e.status = StatusUnsynced
		if e.timer != nil {
			e.timer.Stop()
		}
		e.timer = time.AfterFunc(e.delay, func() { e.commit(gen) })
		return
	}

	e.remote = content
	if e.buffer == content {
		e.status = StatusSynced
	}
	// A keystroke during the flight already moved status to Unsynced and
	// re-armed the timer; leave it be.
}

// Close cancels any pending commit without flushing it.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

func (e *Editor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer
}

func (e *Editor) Date() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.date
}
