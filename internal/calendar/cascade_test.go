package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCascadeDates_SetupStartFillsForward(t *testing.T) {
	s := CascadeDates(Schedule{SetupStart: day(2024, 1, 10)}, FieldSetupStart)

	assert.Equal(t, day(2024, 1, 10), s.SetupEnd)
	assert.Equal(t, day(2024, 1, 10), s.EventStart)
	assert.Equal(t, day(2024, 1, 10), s.EventEnd)
	assert.Equal(t, day(2024, 1, 10), s.Teardown)
}

func TestCascadeDates_LaterFieldsNotPulledBackward(t *testing.T) {
	in := Schedule{
		SetupStart: day(2024, 1, 10),
		SetupEnd:   day(2024, 1, 12),
		EventStart: day(2024, 1, 15),
		EventEnd:   day(2024, 1, 16),
		Teardown:   day(2024, 1, 20),
	}
	s := CascadeDates(in, FieldSetupStart)
	assert.Equal(t, in, s, "fields already later stay put")
}

func TestCascadeDates_EarlierLaterFieldSnapsForward(t *testing.T) {
	in := Schedule{
		SetupStart: day(2024, 1, 10),
		SetupEnd:   day(2024, 1, 12),
		EventStart: day(2024, 1, 11), // now before setup end
	}
	s := CascadeDates(in, FieldSetupEnd)
	assert.Equal(t, day(2024, 1, 12), s.EventStart)
}

func TestCascadeDates_ChangeScopesCascade(t *testing.T) {
	in := Schedule{
		SetupStart: day(2024, 1, 20),
		SetupEnd:   day(2024, 1, 5),
		EventEnd:   day(2024, 1, 25),
		Teardown:   day(2024, 1, 1),
	}
	// Editing event end must not touch the setup pair upstream of it.
	s := CascadeDates(in, FieldEventEnd)
	assert.Equal(t, day(2024, 1, 5), s.SetupEnd)
	assert.Equal(t, day(2024, 1, 25), s.Teardown)
}

func TestCascadeDates_EditingTeardownCascadesNothing(t *testing.T) {
	in := Schedule{
		EventEnd: day(2024, 1, 25),
		Teardown: day(2024, 1, 1),
	}
	s := CascadeDates(in, FieldTeardown)
	assert.Equal(t, in, s)
}

func TestCascadeDates_UnsetSetupEndUsesStart(t *testing.T) {
	in := Schedule{
		SetupStart: day(2024, 1, 10),
		EventStart: day(2024, 1, 8),
	}
	s := CascadeDates(in, FieldSetupEnd)
	assert.Equal(t, day(2024, 1, 10), s.EventStart)
	assert.True(t, s.SetupEnd.IsZero(), "cascade from an unset field fills nothing into it")
}

func TestCascadeDates_EmptySchedule(t *testing.T) {
	s := CascadeDates(Schedule{}, FieldSetupStart)
	assert.Equal(t, Schedule{}, s)
}
