package lifecycle

import (
	"time"

	"clubhub/internal/model"
)

type Reason string

const (
	ReasonDeadlinePassed           Reason = "DEADLINE_PASSED"
	ReasonRegistrationRequired     Reason = "REGISTRATION_REQUIRED"
	ReasonRegistrationClosed       Reason = "REGISTRATION_CLOSED"
	ReasonEventClosed              Reason = "EVENT_CLOSED"
	ReasonNotAcceptingRegistration Reason = "NOT_ACCEPTING_REGISTRATION"
	ReasonNotAcceptingSubmission   Reason = "NOT_ACCEPTING_SUBMISSION"
)

var reasonText = map[Reason]string{
	ReasonDeadlinePassed:           "The deadline for this event has passed",
	ReasonRegistrationRequired:     "You must register for this event before submitting",
	ReasonRegistrationClosed:       "Registration for this event is closed",
	ReasonEventClosed:              "This event is no longer open",
	ReasonNotAcceptingRegistration: "This event does not take registrations",
	ReasonNotAcceptingSubmission:   "This event does not take submissions",
}

// PreconditionError is returned when the event is not in a state that allows
// the requested action.
type PreconditionError struct {
	Reason Reason
}

func (e *PreconditionError) Error() string {
	if text, ok := reasonText[e.Reason]; ok {
		return text
	}
	return string(e.Reason)
}

func precondition(r Reason) error {
	return &PreconditionError{Reason: r}
}

func closed(e *model.Event) bool {
	return e.Status == model.EventStatusCompleted || e.Status == model.EventStatusCancelled
}

// CheckRegistration returns a *PreconditionError when the event cannot take a
// new registration at now.
func CheckRegistration(e *model.Event, now time.Time) error {
	switch {
	case closed(e):
		return precondition(ReasonEventClosed)
	case !e.RegistrationRequired:
		return precondition(ReasonNotAcceptingRegistration)
	case DeadlinePassed(e.RegistrationDeadline, now):
		return precondition(ReasonDeadlinePassed)
	}
	return nil
}

// CheckSubmission returns a *PreconditionError when the event cannot take a
// new submission at now. Whether the user is registered is checked separately
// by the store, inside the write.
func CheckSubmission(e *model.Event, now time.Time) error {
	switch {
	case closed(e):
		return precondition(ReasonEventClosed)
	case !e.SubmissionRequired:
		return precondition(ReasonNotAcceptingSubmission)
	case DeadlinePassed(e.SubmissionDeadline, now):
		return precondition(ReasonDeadlinePassed)
	}
	return nil
}

// RegistrationMissing picks the reason reported to a user who submits without
// being registered.
func RegistrationMissing(e *model.Event, now time.Time) error {
	if DeadlinePassed(e.RegistrationDeadline, now) {
		return precondition(ReasonRegistrationClosed)
	}
	return precondition(ReasonRegistrationRequired)
}
