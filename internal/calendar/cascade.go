package calendar

import "time"

// ScheduleField names one of the event form's ordered date inputs.
type ScheduleField int

const (
	FieldSetupStart ScheduleField = iota
	FieldSetupEnd
	FieldEventStart
	FieldEventEnd
	FieldTeardown
)

// Schedule holds the form's five date fields. Zero values mean "not set".
type Schedule struct {
	SetupStart time.Time
	SetupEnd   time.Time
	EventStart time.Time
	EventEnd   time.Time
	Teardown   time.Time
}

// CascadeDates pulls later fields forward after `changed` was edited, so the
// suggested ordering setup.start <= setup.end <= event.start <= event.end <=
// teardown holds. A later field is only moved when it is unset or earlier
// than its predecessor; fields already later are left alone. This is a form
// convenience, not a data-layer constraint.
func CascadeDates(s Schedule, changed ScheduleField) Schedule {
	if changed == FieldSetupStart && !s.SetupStart.IsZero() {
		if s.SetupEnd.IsZero() || s.SetupEnd.Before(s.SetupStart) {
			s.SetupEnd = s.SetupStart
		}
	}

	if changed <= FieldSetupEnd {
		effectiveSetupEnd := s.SetupEnd
		if effectiveSetupEnd.IsZero() {
			effectiveSetupEnd = s.SetupStart
		}
		if !effectiveSetupEnd.IsZero() &&
			(s.EventStart.IsZero() || s.EventStart.Before(effectiveSetupEnd)) {
			s.EventStart = effectiveSetupEnd
		}
	}

	if changed <= FieldEventStart && !s.EventStart.IsZero() {
		if s.EventEnd.IsZero() || s.EventEnd.Before(s.EventStart) {
			s.EventEnd = s.EventStart
		}
	}

	if changed <= FieldEventEnd {
		effectiveEventEnd := s.EventEnd
		if effectiveEventEnd.IsZero() {
			effectiveEventEnd = s.EventStart
		}
		if !effectiveEventEnd.IsZero() &&
			(s.Teardown.IsZero() || s.Teardown.Before(effectiveEventEnd)) {
			s.Teardown = effectiveEventEnd
		}
	}

	return s
}
