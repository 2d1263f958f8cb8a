package model

import (
	"strings"
	"time"
)

const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

const (
	EventTypeWorkshop    = "workshop"
	EventTypeCompetition = "competition"
	EventTypeExhibition  = "exhibition"
	EventTypeMeetup      = "meetup"
	EventTypeTalk        = "talk"
	EventTypeOther       = "other"
)

var (
	EventStatuses = []string{EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled}
	EventTypes    = []string{EventTypeWorkshop, EventTypeCompetition, EventTypeExhibition, EventTypeMeetup, EventTypeTalk, EventTypeOther}
)

type Location struct {
	Venue       string `db:"venue" json:"venue,omitempty"`
	Address     string `db:"address" json:"address,omitempty"`
	City        string `db:"city" json:"city,omitempty"`
	IsOnline    bool   `db:"is_online" json:"is_online"`
	MeetingLink string `db:"meeting_link" json:"meeting_link,omitempty"`
}

type Event struct {
	ID                   int64      `db:"id" json:"id"`
	Title                string     `db:"title" json:"title"`
	Description          string     `db:"description" json:"description,omitempty"`
	Type                 string     `db:"type" json:"type"`
	Status               string     `db:"status" json:"status"`
	Date                 time.Time  `db:"date" json:"date"`
	EndDate              *time.Time `db:"end_date" json:"end_date,omitempty"`
	RegistrationRequired bool       `db:"registration_required" json:"registration_required"`
	SubmissionRequired   bool       `db:"submission_required" json:"submission_required"`
	RegistrationDeadline *time.Time `db:"registration_deadline" json:"registration_deadline,omitempty"`
	SubmissionDeadline   *time.Time `db:"submission_deadline" json:"submission_deadline,omitempty"`
	Location
	CoverImageURL     string    `db:"cover_image_url" json:"cover_image_url,omitempty"`
	MaxParticipants   int       `db:"max_participants" json:"max_participants"`
	RegistrationCount int       `db:"registration_count" json:"registration_count"`
	SubmissionCount   int       `db:"submission_count" json:"submission_count"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Normalize makes an event that collects submissions also collect
// registrations. It reports whether anything was changed.
func (e *Event) Normalize() bool {
	if e.SubmissionRequired && !e.RegistrationRequired {
		e.RegistrationRequired = true
		return true
	}
	return false
}

// SubmissionOnly reports whether submitting implicitly registers the user.
func (e *Event) SubmissionOnly() bool {
	return e.SubmissionRequired && !e.RegistrationRequired
}

// FullLocation renders the location for display.
func (l Location) FullLocation() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Venue, l.Address, l.City} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch {
	case len(parts) == 0 && l.IsOnline:
		return "Online"
	case l.IsOnline:
		return strings.Join(parts, ", ") + " (Online)"
	default:
		return strings.Join(parts, ", ")
	}
}

type EventFilter struct {
	Status string
	Type   string
	// From drops events dated before it when set.
	From *time.Time
}

// EventPatch lists the event fields an admin may change after creation.
type EventPatch struct {
	Title                *string
	Description          *string
	Type                 *string
	Status               *string
	Date                 *time.Time
	EndDate              *time.Time
	RegistrationRequired *bool
	SubmissionRequired   *bool
	RegistrationDeadline *time.Time
	SubmissionDeadline   *time.Time
	Venue                *string
	Address              *string
	City                 *string
	IsOnline             *bool
	MeetingLink          *string
	CoverImageURL        *string
	MaxParticipants      *int

	// Clear* remove an optional date. They win over a value set in the same
	// patch.
	ClearEndDate              bool
	ClearRegistrationDeadline bool
	ClearSubmissionDeadline   bool
}

// Apply copies the set fields of p onto e.
func (p EventPatch) Apply(e *Event) {
	setString(&e.Title, p.Title)
	setString(&e.Description, p.Description)
	setString(&e.Type, p.Type)
	setString(&e.Status, p.Status)
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.EndDate != nil {
		e.EndDate = p.EndDate
	}
	if p.RegistrationRequired != nil {
		e.RegistrationRequired = *p.RegistrationRequired
	}
	if p.SubmissionRequired != nil {
		e.SubmissionRequired = *p.SubmissionRequired
	}
	if p.RegistrationDeadline != nil {
		e.RegistrationDeadline = p.RegistrationDeadline
	}
	if p.SubmissionDeadline != nil {
		e.SubmissionDeadline = p.SubmissionDeadline
	}
	setString(&e.Venue, p.Venue)
	setString(&e.Address, p.Address)
	setString(&e.City, p.City)
	if p.IsOnline != nil {
		e.IsOnline = *p.IsOnline
	}
	setString(&e.MeetingLink, p.MeetingLink)
	setString(&e.CoverImageURL, p.CoverImageURL)
	if p.MaxParticipants != nil {
		e.MaxParticipants = *p.MaxParticipants
	}
	if p.ClearEndDate {
		e.EndDate = nil
	}
	if p.ClearRegistrationDeadline {
		e.RegistrationDeadline = nil
	}
	if p.ClearSubmissionDeadline {
		e.SubmissionDeadline = nil
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func ValidEventStatus(s string) bool { return contains(EventStatuses, s) }
func ValidEventType(s string) bool   { return contains(EventTypes, s) }
