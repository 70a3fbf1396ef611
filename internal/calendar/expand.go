// Package calendar turns events into per-day occurrence buckets for the
// month view, plus the date helpers the event form relies on.
package calendar

import (
	"time"

	"controlx/internal/models"
)

type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhaseEventDay Phase = "event"
	PhaseTeardown Phase = "teardown"
)

// Occurrence is one (event, day, phase) entry in the expanded index.
type Occurrence struct {
	Event models.Event `json:"event"`
	Phase Phase        `json:"phase"`
}

// DayKey derives the bucket key for an instant. Stored instants are
// UTC-midnight-anchored, so the key must come from the UTC calendar date;
// using the local date shifts every bucket by a day east of Greenwich.
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Expand walks every event's three date spans and buckets them by UTC day.
// Setup and EventDate ranges are inclusive on both ends (a missing End means
// the range is its start day only); Teardown contributes a single day.
// A range whose end precedes its start yields no occurrences. Order within
// a bucket is insertion order; callers wanting determinism sort downstream.
func Expand(events []models.Event) map[string][]Occurrence {
	buckets := make(map[string][]Occurrence)

	add := func(day time.Time, ev models.Event, phase Phase) {
		key := DayKey(day)
		buckets[key] = append(buckets[key], Occurrence{Event: ev, Phase: phase})
	}

	for _, ev := range events {
		walkRange(ev.Setup, func(day time.Time) { add(day, ev, PhaseSetup) })
		walkRange(ev.EventDate, func(day time.Time) { add(day, ev, PhaseEventDay) })
		if !ev.Teardown.IsZero() {
			add(ev.Teardown, ev, PhaseTeardown)
		}
	}

	return buckets
}

// walkRange visits each UTC calendar day of r inclusively. The loop stops
// the first time the cursor passes the end day, so an inverted range visits
// nothing.
func walkRange(r models.DateRange, visit func(time.Time)) {
	if r.Start.IsZero() {
		return
	}
	cur := midnightUTC(r.Start)
	end := cur
	if r.End != nil {
		end = midnightUTC(*r.End)
	}
	for !cur.After(end) {
		visit(cur)
		cur = cur.AddDate(0, 0, 1)
	}
}

func midnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// FilterPhases restricts an expansion to the enabled phases. It never
// recomputes the expansion; days left with no visible occurrences keep an
// empty bucket, matching the unfiltered key set.
func FilterPhases(buckets map[string][]Occurrence, enabled map[Phase]bool) map[string][]Occurrence {
	out := make(map[string][]Occurrence, len(buckets))
	for key, occs := range buckets {
		kept := make([]Occurrence, 0, len(occs))
		for _, o := range occs {
			if enabled[o.Phase] {
				kept = append(kept, o)
			}
		}
		out[key] = kept
	}
	return out
}
