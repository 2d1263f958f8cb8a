package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func ptr(t time.Time) *time.Time { return &t }

func TestDeadlinePassedIsDateOnly(t *testing.T) {
	deadline := ptr(date(t, "2025-08-15T23:59:59Z"))

	assert.False(t, DeadlinePassed(deadline, date(t, "2025-08-15T00:00:01Z")))
	assert.False(t, DeadlinePassed(deadline, date(t, "2025-08-15T23:59:59Z")))
	assert.True(t, DeadlinePassed(deadline, date(t, "2025-08-16T00:00:00Z")))
	assert.False(t, DeadlinePassed(deadline, date(t, "2025-08-01T12:00:00Z")))
	assert.False(t, DeadlinePassed(nil, date(t, "2030-01-01T00:00:00Z")))
}

func TestDeadlinePassedUsesNowLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 2025-08-15 20:00 UTC is already 2025-08-16 in IST.
	deadline := ptr(date(t, "2025-08-15T20:00:00Z"))
	now := date(t, "2025-08-16T10:00:00+05:30")
	assert.False(t, DeadlinePassed(deadline, now.In(ist)))
	assert.True(t, DeadlinePassed(deadline, now.UTC().AddDate(0, 0, 1)))

	now = date(t, "2025-08-17T00:30:00+05:30")
	assert.True(t, DeadlinePassed(deadline, now.In(ist)))
}

func TestResolveCompletedIsAlwaysTerminal(t *testing.T) {
	now := date(t, "2025-08-10T10:00:00Z")
	for _, reg := range []bool{false, true} {
		for _, sub := range []bool{false, true} {
			for _, v := range []Viewer{{}, {Authenticated: true}, {true, true, true}} {
				e := &model.Event{
					Status:               model.EventStatusCompleted,
					RegistrationRequired: reg,
					SubmissionRequired:   sub,
					RegistrationDeadline: ptr(now.AddDate(0, 0, 5)),
				}
				d := Resolve(e, v, now)
				assert.Equal(t, ActionNone, d.Action)
				assert.Equal(t, StateCompleted, d.State)
				assert.True(t, d.Terminal)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	now := date(t, "2025-08-10T10:00:00Z")
	future := ptr(now.AddDate(0, 0, 3))
	past := ptr(now.AddDate(0, 0, -1))
	anon := Viewer{}
	user := Viewer{Authenticated: true}
	registered := Viewer{Authenticated: true, Registered: true}
	submitted := Viewer{Authenticated: true, Registered: true, Submitted: true}

	tests := []struct {
		name       string
		event      model.Event
		viewer     Viewer
		wantAction Action
		wantState  State
		terminal   bool
	}{
		{
			name:       "cancelled",
			event:      model.Event{Status: model.EventStatusCancelled, RegistrationRequired: true, RegistrationDeadline: future},
			viewer:     user,
			wantAction: ActionNone, wantState: StateCancelled, terminal: true,
		},
		{
			name:       "ongoing without submissions is informational",
			event:      model.Event{Status: model.EventStatusOngoing, RegistrationRequired: true},
			viewer:     registered,
			wantAction: ActionNone, wantState: StateOngoing,
		},
		{
			name:       "ongoing submission anonymous",
			event:      model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true},
			viewer:     anon,
			wantAction: ActionLoginToSubmit, wantState: StateOpen,
		},
		{
			name:       "ongoing submission already submitted",
			event:      model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true, RegistrationRequired: true},
			viewer:     submitted,
			wantAction: ActionNone, wantState: StateSubmissionCompleted, terminal: true,
		},
		{
			name:       "ongoing unregistered before registration deadline",
			event:      model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true, RegistrationRequired: true, RegistrationDeadline: future},
			viewer:     user,
			wantAction: ActionRegisterToSubmit, wantState: StateOpen,
		},
		{
			name:       "ongoing unregistered after registration deadline",
			event:      model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true, RegistrationRequired: true, RegistrationDeadline: past},
			viewer:     user,
			wantAction: ActionNone, wantState: StateRegistrationClosed, terminal: true,
		},
		{
			name:       "ongoing registered can submit",
			event:      model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true, RegistrationRequired: true, RegistrationDeadline: past},
			viewer:     registered,
			wantAction: ActionSubmit, wantState: StateOpen,
		},
		{
			name:       "ongoing submission only",
			event:      model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true},
			viewer:     user,
			wantAction: ActionSubmit, wantState: StateOpen,
		},
		{
			name:       "upcoming registration deadline passed wins over login",
			event:      model.Event{Status: model.EventStatusUpcoming, RegistrationRequired: true, RegistrationDeadline: past},
			viewer:     anon,
			wantAction: ActionNone, wantState: StateDeadlinePassed, terminal: true,
		},
		{
			name:       "upcoming registration anonymous",
			event:      model.Event{Status: model.EventStatusUpcoming, RegistrationRequired: true, RegistrationDeadline: future},
			viewer:     anon,
			wantAction: ActionLoginToRegister, wantState: StateOpen,
		},
		{
			name:       "upcoming already registered",
			event:      model.Event{Status: model.EventStatusUpcoming, RegistrationRequired: true, RegistrationDeadline: future},
			viewer:     registered,
			wantAction: ActionNone, wantState: StateAlreadyRegistered, terminal: true,
		},
		{
			name:       "upcoming register now",
			event:      model.Event{Status: model.EventStatusUpcoming, RegistrationRequired: true, RegistrationDeadline: future},
			viewer:     user,
			wantAction: ActionRegister, wantState: StateOpen,
		},
		{
			name:       "upcoming submission only anonymous",
			event:      model.Event{Status: model.EventStatusUpcoming, SubmissionRequired: true, SubmissionDeadline: past},
			viewer:     anon,
			wantAction: ActionLoginToSubmit, wantState: StateOpen,
		},
		{
			name:       "upcoming submission only submitted",
			event:      model.Event{Status: model.EventStatusUpcoming, SubmissionRequired: true, SubmissionDeadline: past},
			viewer:     submitted,
			wantAction: ActionNone, wantState: StateSubmissionCompleted, terminal: true,
		},
		{
			name:       "upcoming submission only deadline passed",
			event:      model.Event{Status: model.EventStatusUpcoming, SubmissionRequired: true, SubmissionDeadline: past},
			viewer:     user,
			wantAction: ActionNone, wantState: StateDeadlinePassed, terminal: true,
		},
		{
			name:       "upcoming submission only open",
			event:      model.Event{Status: model.EventStatusUpcoming, SubmissionRequired: true, SubmissionDeadline: future},
			viewer:     user,
			wantAction: ActionSubmit, wantState: StateOpen,
		},
		{
			name:       "upcoming with nothing to do",
			event:      model.Event{Status: model.EventStatusUpcoming},
			viewer:     user,
			wantAction: ActionNone, wantState: StateNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Resolve(&tt.event, tt.viewer, now)
			assert.Equal(t, tt.wantAction, d.Action)
			assert.Equal(t, tt.wantState, d.State)
			assert.Equal(t, tt.terminal, d.Terminal)
		})
	}
}

func reasonOf(t *testing.T, err error) Reason {
	t.Helper()
	var pe *PreconditionError
	require.True(t, errors.As(err, &pe), "expected precondition error, got %v", err)
	return pe.Reason
}

func TestCheckRegistration(t *testing.T) {
	deadline := ptr(date(t, "2025-08-10T09:00:00Z"))
	e := &model.Event{Status: model.EventStatusUpcoming, RegistrationRequired: true, RegistrationDeadline: deadline}

	assert.NoError(t, CheckRegistration(e, date(t, "2025-08-09T12:00:00Z")))
	assert.NoError(t, CheckRegistration(e, date(t, "2025-08-10T22:00:00Z")))
	assert.Equal(t, ReasonDeadlinePassed, reasonOf(t, CheckRegistration(e, date(t, "2025-08-11T00:00:00Z"))))

	assert.Equal(t, ReasonNotAcceptingRegistration,
		reasonOf(t, CheckRegistration(&model.Event{Status: model.EventStatusUpcoming}, date(t, "2025-08-09T12:00:00Z"))))
	assert.Equal(t, ReasonEventClosed,
		reasonOf(t, CheckRegistration(&model.Event{Status: model.EventStatusCompleted, RegistrationRequired: true}, date(t, "2025-08-09T12:00:00Z"))))
}

func TestCheckSubmission(t *testing.T) {
	now := date(t, "2025-08-10T10:00:00Z")
	open := &model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true, SubmissionDeadline: ptr(now)}
	assert.NoError(t, CheckSubmission(open, now))

	late := &model.Event{Status: model.EventStatusOngoing, SubmissionRequired: true, SubmissionDeadline: ptr(now.AddDate(0, 0, -1))}
	assert.Equal(t, ReasonDeadlinePassed, reasonOf(t, CheckSubmission(late, now)))

	noSub := &model.Event{Status: model.EventStatusOngoing, RegistrationRequired: true}
	assert.Equal(t, ReasonNotAcceptingSubmission, reasonOf(t, CheckSubmission(noSub, now)))

	cancelled := &model.Event{Status: model.EventStatusCancelled, SubmissionRequired: true}
	assert.Equal(t, ReasonEventClosed, reasonOf(t, CheckSubmission(cancelled, now)))
}

func TestRegistrationMissing(t *testing.T) {
	now := date(t, "2025-08-10T10:00:00Z")
	e := &model.Event{RegistrationRequired: true, SubmissionRequired: true, RegistrationDeadline: ptr(now.AddDate(0, 0, 1))}
	assert.Equal(t, ReasonRegistrationRequired, reasonOf(t, RegistrationMissing(e, now)))

	e.RegistrationDeadline = ptr(now.AddDate(0, 0, -2))
	assert.Equal(t, ReasonRegistrationClosed, reasonOf(t, RegistrationMissing(e, now)))
}
