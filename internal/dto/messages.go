package dto

import "time"

const (
	NotifyRegistrationCreated = "registration.created"
	NotifyRegistrationUpdated = "registration.updated"
	NotifySubmissionCreated   = "submission.created"
	NotifySubmissionReviewed  = "submission.reviewed"
	NotifyEventReminder       = "event.reminder"
	NotifyContactReceived     = "contact.received"
)

// Notification is the message put on the queue for the mail worker.
type Notification struct {
	Kind           string    `json:"kind"`
	EventID        int64     `json:"event_id,omitempty"`
	EventTitle     string    `json:"event_title,omitempty"`
	EventDate      time.Time `json:"event_date,omitempty"`
	RegistrationID int64     `json:"registration_id,omitempty"`
	SubmissionID   int64     `json:"submission_id,omitempty"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email"`
	ReplyTo        string    `json:"reply_to,omitempty"`
	Status         string    `json:"status,omitempty"`
	Detail         string    `json:"detail,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
