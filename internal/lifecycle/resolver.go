package lifecycle

import (
	"time"

	"clubhub/internal/model"
)

type Action string

const (
	ActionNone             Action = "none"
	ActionLoginToRegister  Action = "login-to-register"
	ActionRegister         Action = "register"
	ActionLoginToSubmit    Action = "login-to-submit"
	ActionRegisterToSubmit Action = "register-to-submit"
	ActionSubmit           Action = "submit"
)

type State string

const (
	StateNone                State = "none"
	StateOpen                State = "open"
	StateOngoing             State = "ongoing"
	StateCompleted           State = "completed"
	StateCancelled           State = "cancelled"
	StateDeadlinePassed      State = "deadline-passed"
	StateRegistrationClosed  State = "registration-closed"
	StateAlreadyRegistered   State = "already-registered"
	StateSubmissionCompleted State = "submission-completed"
)

// Viewer is what is known about the caller looking at an event.
type Viewer struct {
	Authenticated bool
	Registered    bool
	Submitted     bool
}

type Decision struct {
	Action                     Action `json:"action"`
	State                      State  `json:"state"`
	Terminal                   bool   `json:"terminal"`
	RegistrationDeadlinePassed bool   `json:"registration_deadline_passed"`
	SubmissionDeadlinePassed   bool   `json:"submission_deadline_passed"`
}

// Resolve picks the single action the viewer may take on the event right now.
func Resolve(e *model.Event, v Viewer, now time.Time) Decision {
	d := Decision{
		RegistrationDeadlinePassed: DeadlinePassed(e.RegistrationDeadline, now),
		SubmissionDeadlinePassed:   DeadlinePassed(e.SubmissionDeadline, now),
	}

	switch e.Status {
	case model.EventStatusCompleted:
		return d.terminal(StateCompleted)
	case model.EventStatusCancelled:
		return d.terminal(StateCancelled)
	case model.EventStatusOngoing:
		return resolveOngoing(e, v, d)
	case model.EventStatusUpcoming:
		return resolveUpcoming(e, v, d)
	}
	return d.with(ActionNone, StateNone)
}

func resolveOngoing(e *model.Event, v Viewer, d Decision) Decision {
	if !e.SubmissionRequired {
		return d.with(ActionNone, StateOngoing)
	}
	switch {
	case !v.Authenticated:
		return d.with(ActionLoginToSubmit, StateOpen)
	case v.Submitted:
		return d.terminal(StateSubmissionCompleted)
	case e.RegistrationRequired && !v.Registered:
		if d.RegistrationDeadlinePassed {
			return d.terminal(StateRegistrationClosed)
		}
		return d.with(ActionRegisterToSubmit, StateOpen)
	}
	return d.with(ActionSubmit, StateOpen)
}

func resolveUpcoming(e *model.Event, v Viewer, d Decision) Decision {
	switch {
	case e.RegistrationRequired:
		switch {
		case d.RegistrationDeadlinePassed:
			return d.terminal(StateDeadlinePassed)
		case !v.Authenticated:
			return d.with(ActionLoginToRegister, StateOpen)
		case v.Registered:
			return d.terminal(StateAlreadyRegistered)
		}
		return d.with(ActionRegister, StateOpen)
	case e.SubmissionRequired:
		switch {
		case !v.Authenticated:
			return d.with(ActionLoginToSubmit, StateOpen)
		case v.Submitted:
			return d.terminal(StateSubmissionCompleted)
		case d.SubmissionDeadlinePassed:
			return d.terminal(StateDeadlinePassed)
		}
		return d.with(ActionSubmit, StateOpen)
	}
	return d.with(ActionNone, StateNone)
}

func (d Decision) with(a Action, s State) Decision {
	d.Action = a
	d.State = s
	return d
}

func (d Decision) terminal(s State) Decision {
	d = d.with(ActionNone, s)
	d.Terminal = true
	return d
}
