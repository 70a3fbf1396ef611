package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"controlx/internal/models"
)

type fakeEventStore struct {
	mu          stdsync.Mutex
	createErr   error
	updateErr   error
	deleteErr   error
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeEventStore) CreateEvent(ctx context.Context, ev models.Event) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return "srv-1", nil
}

func (f *fakeEventStore) UpdateEvent(ctx context.Context, id string, patch models.EventPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	return f.updateErr
}

func (f *fakeEventStore) DeleteEvent(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

type fakeEventFeed struct {
	ch      chan []models.Event
	cancels int
}

func newFakeEventFeed() *fakeEventFeed {
	return &fakeEventFeed{ch: make(chan []models.Event)}
}

func (f *fakeEventFeed) SubscribeEvents(ctx context.Context) (<-chan []models.Event, func(), error) {
	return f.ch, func() { f.cancels++ }, nil
}

func (f *fakeEventFeed) push(t *testing.T, s *EventSync, snapshot []models.Event) {
	t.Helper()
	f.ch <- snapshot
	// The subscription goroutine applies pushes asynchronously; wait until
	// exactly this snapshot's ids are the local state.
	want := make(map[string]bool, len(snapshot))
	for _, ev := range snapshot {
		want[ev.ID] = true
	}
	require.Eventually(t, func() bool {
		events := s.Events()
		if len(events) != len(snapshot) {
			return false
		}
		for _, ev := range events {
			if !want[ev.ID] {
				return false
			}
		}
		return true
	}, time.Second, 5*time.Millisecond)
}

func newTestSync(t *testing.T) (*EventSync, *fakeEventStore, *fakeEventFeed, func()) {
	t.Helper()
	store := &fakeEventStore{}
	feed := newFakeEventFeed()
	s := NewEventSync(store, feed, zap.NewNop())
	cancel, err := s.Subscribe(context.Background())
	require.NoError(t, err)
	return s, store, feed, cancel
}

func testEvent(id string, updatedAt time.Time) models.Event {
	return models.Event{
		ID:        id,
		Status:    models.StatusConfirmed,
		Title:     "Launch " + id,
		Setup:     models.DateRange{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		EventDate: models.DateRange{Start: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		Teardown:  time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		CreatedBy: "u-1",
		UpdatedAt: updatedAt,
	}
}

func TestEventSync_PushOrdersByUpdatedAtDesc(t *testing.T) {
	s, _, feed, cancel := newTestSync(t)
	defer cancel()

	older := testEvent("a", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	newer := testEvent("b", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))
	feed.push(t, s, []models.Event{older, newer})

	events := s.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "b", events[0].ID)
	assert.Equal(t, "a", events[1].ID)
}

func TestEventSync_PushIdempotent(t *testing.T) {
	s, _, feed, cancel := newTestSync(t)
	defer cancel()

	snapshot := []models.Event{
		testEvent("a", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
		testEvent("b", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)),
	}
	feed.push(t, s, snapshot)
	first := s.Events()

	feed.push(t, s, snapshot)
	time.Sleep(50 * time.Millisecond) // let the redundant push apply fully
	assert.Equal(t, first, s.Events())
}

func TestEventSync_CreateRequiresActor(t *testing.T) {
	s, store, _, cancel := newTestSync(t)
	defer cancel()

	err := s.Create(context.Background(), testEvent("", time.Time{}))
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, s.Err(), ErrUnauthenticated)
	assert.Zero(t, store.createCalls)
	assert.Empty(t, s.Events())
}

func TestEventSync_CreateInsertsProvisionalRecord(t *testing.T) {
	s, store, _, cancel := newTestSync(t)
	defer cancel()
	s.SetActor("u-7")

	require.NoError(t, s.Create(context.Background(), testEvent("", time.Time{})))
	assert.Equal(t, 1, store.createCalls)

	events := s.Events()
	require.Len(t, events, 1)
	assert.Contains(t, events[0].ID, "temp-")
	assert.Equal(t, "u-7", events[0].CreatedBy)
	assert.NoError(t, s.Err())
}

func TestEventSync_CreateSupersededByPush(t *testing.T) {
	s, _, feed, cancel := newTestSync(t)
	defer cancel()
	s.SetActor("u-7")

	require.NoError(t, s.Create(context.Background(), testEvent("", time.Time{})))

	authoritative := testEvent("srv-1", time.Now().UTC())
	feed.push(t, s, []models.Event{authoritative})

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "srv-1", events[0].ID)
}

func TestEventSync_CreateRollbackOnFailure(t *testing.T) {
	s, store, _, cancel := newTestSync(t)
	defer cancel()
	s.SetActor("u-7")
	store.createErr = errors.New("boom")

	err := s.Create(context.Background(), testEvent("", time.Time{}))
	require.ErrorIs(t, err, ErrRemoteWrite)
	assert.Empty(t, s.Events(), "provisional record must be gone after failure")
	assert.ErrorIs(t, s.Err(), ErrRemoteWrite)
}

func TestEventSync_UpdateAppliesOptimistically(t *testing.T) {
	s, store, feed, cancel := newTestSync(t)
	defer cancel()

	feed.push(t, s, []models.Event{testEvent("a", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))})

	title := "Renamed"
	require.NoError(t, s.Update(context.Background(), "a", models.EventPatch{Title: &title}))

	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Renamed", events[0].Title)
	assert.Equal(t, 1, store.updateCalls)
}

func TestEventSync_UpdateRollbackRestoresSnapshotVerbatim(t *testing.T) {
	s, store, feed, cancel := newTestSync(t)
	defer cancel()

	feed.push(t, s, []models.Event{
		testEvent("a", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)),
		testEvent("b", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
	})
	before := s.Events()

	store.updateErr = errors.New("boom")
	title := "Renamed"
	err := s.Update(context.Background(), "a", models.EventPatch{Title: &title})
	require.ErrorIs(t, err, ErrRemoteWrite)
	assert.Equal(t, before, s.Events())
}

func TestEventSync_UpdateUnknownIDIsNoop(t *testing.T) {
	s, store, _, cancel := newTestSync(t)
	defer cancel()

	title := "Renamed"
	require.NoError(t, s.Update(context.Background(), "missing", models.EventPatch{Title: &title}))
	assert.Zero(t, store.updateCalls)
	assert.NoError(t, s.Err())
}

func TestEventSync_RemoveOptimisticAndRollback(t *testing.T) {
	s, store, feed, cancel := newTestSync(t)
	defer cancel()

	feed.push(t, s, []models.Event{testEvent("a", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))})
	before := s.Events()

	// failure restores the snapshot
	store.deleteErr = errors.New("boom")
	err := s.Remove(context.Background(), "a")
	require.ErrorIs(t, err, ErrRemoteWrite)
	assert.Equal(t, before, s.Events())

	// success removes for good
	store.deleteErr = nil
	require.NoError(t, s.Remove(context.Background(), "a"))
	assert.Empty(t, s.Events())
	assert.NoError(t, s.Err())
}

func TestEventSync_ErrSlotClearedBySuccess(t *testing.T) {
	s, store, feed, cancel := newTestSync(t)
	defer cancel()

	feed.push(t, s, []models.Event{testEvent("a", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))})

	store.updateErr = errors.New("boom")
	title := "x"
	_ = s.Update(context.Background(), "a", models.EventPatch{Title: &title})
	require.Error(t, s.Err())

	store.updateErr = nil
	require.NoError(t, s.Update(context.Background(), "a", models.EventPatch{Title: &title}))
	assert.NoError(t, s.Err())
}

func TestEventSync_CancelIsIdempotent(t *testing.T) {
	s, _, feed, cancel := newTestSync(t)
	_ = s

	cancel()
	cancel()
	assert.Equal(t, 1, feed.cancels)
}

func TestEventSync_SnapshotInFlightAtCancelIsDiscarded(t *testing.T) {
	s, _, feed, cancel := newTestSync(t)

	feed.push(t, s, []models.Event{testEvent("a", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))})

	cancel()
	// Delivered to the consumer goroutine, but only after cancellation.
	feed.ch <- []models.Event{testEvent("b", time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC))}

	time.Sleep(50 * time.Millisecond)
	events := s.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "a", events[0].ID)
}
