package model

import "time"

const (
	SubmissionSubmitted   = "submitted"
	SubmissionUnderReview = "under-review"
	SubmissionApproved    = "approved"
	SubmissionRejected    = "rejected"
	SubmissionWinner      = "winner"
)

var SubmissionStatuses = []string{SubmissionSubmitted, SubmissionUnderReview, SubmissionApproved, SubmissionRejected, SubmissionWinner}

type Award struct {
	Position       int    `json:"position" validate:"positive"`
	Prize          string `json:"prize,omitempty" validate:"max=255"`
	CertificateURL string `json:"certificate_url,omitempty" validate:"omitempty,url"`
}

type Submission struct {
	ID          int64 `db:"id" json:"id"`
	EventID     int64 `db:"event_id" json:"event_id"`
	UserID      int64 `db:"user_id" json:"user_id"`
	Participant `json:"participant"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description,omitempty"`
	MainFileURL string    `db:"main_file_url" json:"main_file_url"`
	Status      string    `db:"status" json:"status"`
	Award       *Award    `db:"award" json:"award,omitempty"`
	ReviewNotes string    `db:"review_notes" json:"review_notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func ValidSubmissionStatus(s string) bool { return contains(SubmissionStatuses, s) }
