package models

import "time"

type EventStatus string

const (
	StatusNegotiation EventStatus = "negotiation"
	StatusConfirmed   EventStatus = "confirmed"
	StatusSetup       EventStatus = "setup"
	StatusCompleted   EventStatus = "completed"
)

// DateRange is a day-granular span. End is optional; a nil End means the
// range covers only Start's day.
type DateRange struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

type Event struct {
	ID          string      `json:"id"`
	Status      EventStatus `json:"status"`
	Title       string      `json:"title"`
	Venue       string      `json:"venue"`
	Client      string      `json:"client"`
	Fabrication string      `json:"fabrication"`
	Notes       string      `json:"notes,omitempty"`
	Setup       DateRange   `json:"setup"`
	EventDate   DateRange   `json:"event_date"`
	Teardown    time.Time   `json:"teardown"`
	CreatedBy   string      `json:"created_by"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// EventPatch carries a partial update; nil fields are left untouched.
// ID and CreatedBy are immutable and deliberately absent.
type EventPatch struct {
	Status      *EventStatus `json:"status,omitempty"`
	Title       *string      `json:"title,omitempty"`
	Venue       *string      `json:"venue,omitempty"`
	Client      *string      `json:"client,omitempty"`
	Fabrication *string      `json:"fabrication,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
	Setup       *DateRange   `json:"setup,omitempty"`
	EventDate   *DateRange   `json:"event_date,omitempty"`
	Teardown    *time.Time   `json:"teardown,omitempty"`
}

// Clone returns a deep copy, detached from any shared DateRange.End pointers.
func (e Event) Clone() Event {
	out := e
	out.Setup = e.Setup.clone()
	out.EventDate = e.EventDate.clone()
	return out
}

func (r DateRange) clone() DateRange {
	out := r
	if r.End != nil {
		end := *r.End
		out.End = &end
	}
	return out
}

// Apply copies the patch's non-nil fields onto the event.
func (e *Event) Apply(p EventPatch) {
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Venue != nil {
		e.Venue = *p.Venue
	}
	if p.Client != nil {
		e.Client = *p.Client
	}
	if p.Fabrication != nil {
		e.Fabrication = *p.Fabrication
	}
	if p.Notes != nil {
		e.Notes = *p.Notes
	}
	if p.Setup != nil {
		e.Setup = p.Setup.clone()
	}
	if p.EventDate != nil {
		e.EventDate = p.EventDate.clone()
	}
	if p.Teardown != nil {
		e.Teardown = *p.Teardown
	}
}
