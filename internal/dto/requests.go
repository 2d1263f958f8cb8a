package dto

import (
	"encoding/json"
	"time"

	"clubhub/internal/model"
)

type CreateEventRequest struct {
	Title                string     `json:"title" validate:"required,max=255"`
	Description          string     `json:"description"`
	Type                 string     `json:"type" validate:"omitempty,oneof=workshop competition exhibition meetup talk other"`
	Status               string     `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Date                 time.Time  `json:"date" validate:"required"`
	EndDate              *time.Time `json:"end_date"`
	RegistrationRequired bool       `json:"registration_required"`
	SubmissionRequired   bool       `json:"submission_required"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	SubmissionDeadline   *time.Time `json:"submission_deadline"`
	Venue                string     `json:"venue" validate:"max=255"`
	Address              string     `json:"address" validate:"max=255"`
	City                 string     `json:"city" validate:"max=128"`
	IsOnline             bool       `json:"is_online"`
	MeetingLink          string     `json:"meeting_link" validate:"omitempty,httpurl"`
	CoverImageURL        string     `json:"cover_image_url" validate:"omitempty,httpurl"`
	MaxParticipants      int        `json:"max_participants" validate:"gte=0"`
}

func (r CreateEventRequest) ToModel() *model.Event {
	e := &model.Event{
		Title:                r.Title,
		Description:          r.Description,
		Type:                 r.Type,
		Status:               r.Status,
		Date:                 r.Date,
		EndDate:              r.EndDate,
		RegistrationRequired: r.RegistrationRequired,
		SubmissionRequired:   r.SubmissionRequired,
		RegistrationDeadline: r.RegistrationDeadline,
		SubmissionDeadline:   r.SubmissionDeadline,
		Location: model.Location{
			Venue:       r.Venue,
			Address:     r.Address,
			City:        r.City,
			IsOnline:    r.IsOnline,
			MeetingLink: r.MeetingLink,
		},
		CoverImageURL:   r.CoverImageURL,
		MaxParticipants: r.MaxParticipants,
	}
	if e.Type == "" {
		e.Type = model.EventTypeOther
	}
	if e.Status == "" {
		e.Status = model.EventStatusUpcoming
	}
	return e
}

type UpdateEventRequest struct {
	Title                *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description          *string    `json:"description"`
	Type                 *string    `json:"type" validate:"omitempty,oneof=workshop competition exhibition meetup talk other"`
	Status               *string    `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	Date                 *time.Time `json:"date"`
	EndDate              *time.Time `json:"end_date"`
	RegistrationRequired *bool      `json:"registration_required"`
	SubmissionRequired   *bool      `json:"submission_required"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
	SubmissionDeadline   *time.Time `json:"submission_deadline"`
	Venue                *string    `json:"venue" validate:"omitempty,max=255"`
	Address              *string    `json:"address" validate:"omitempty,max=255"`
	City                 *string    `json:"city" validate:"omitempty,max=128"`
	IsOnline             *bool      `json:"is_online"`
	MeetingLink          *string    `json:"meeting_link" validate:"omitempty,httpurl"`
	CoverImageURL        *string    `json:"cover_image_url" validate:"omitempty,httpurl"`
	MaxParticipants      *int       `json:"max_participants" validate:"omitempty,gte=0"`

	// Clear names optional dates to remove.
	Clear []string `json:"clear" validate:"dive,oneof=end_date registration_deadline submission_deadline"`
}

func (r UpdateEventRequest) ToPatch() model.EventPatch {
	drop := make(map[string]bool, len(r.Clear))
	for _, f := range r.Clear {
		drop[f] = true
	}
	return model.EventPatch{
		Title:                r.Title,
		Description:          r.Description,
		Type:                 r.Type,
		Status:               r.Status,
		Date:                 r.Date,
		EndDate:              r.EndDate,
		RegistrationRequired: r.RegistrationRequired,
		SubmissionRequired:   r.SubmissionRequired,
		RegistrationDeadline: r.RegistrationDeadline,
		SubmissionDeadline:   r.SubmissionDeadline,
		Venue:                r.Venue,
		Address:              r.Address,
		City:                 r.City,
		IsOnline:             r.IsOnline,
		MeetingLink:          r.MeetingLink,
		CoverImageURL:        r.CoverImageURL,
		MaxParticipants:      r.MaxParticipants,

		ClearEndDate:              drop["end_date"],
		ClearRegistrationDeadline: drop["registration_deadline"],
		ClearSubmissionDeadline:   drop["submission_deadline"],
	}
}

// ParticipantRequest holds the participant fields a user may fill in when
// signing up for an event. Empty fields are taken from the user's profile.
type ParticipantRequest struct {
	Name       string `json:"name" validate:"omitempty,min=2,max=255"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Department string `json:"department" validate:"max=255"`
	Year       string `json:"year" validate:"max=32"`
	StudentID  string `json:"student_id" validate:"max=64"`
}

func (r ParticipantRequest) ToModel() model.Participant {
	return model.Participant{
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Department: r.Department,
		Year:       r.Year,
		StudentID:  r.StudentID,
	}
}

type AdminRegisterRequest struct {
	UserID int64 `json:"user_id" validate:"positive"`
	ParticipantRequest
}

type SubmitRequest struct {
	Title       string             `json:"title" validate:"required,max=255"`
	Description string             `json:"description" validate:"max=5000"`
	MainFileURL string             `json:"main_file_url" validate:"required"`
	Participant ParticipantRequest `json:"participant"`
}

type UpdateRegistrationRequest struct {
	Status           *string `json:"status" validate:"omitempty,oneof=pending confirmed waitlisted cancelled completed"`
	PaymentStatus    *string `json:"payment_status" validate:"omitempty,oneof=not-required pending paid refunded"`
	AttendanceStatus *string `json:"attendance_status" validate:"omitempty,oneof=not-marked present absent"`
}

func (r UpdateRegistrationRequest) ToPatch() model.RegistrationPatch {
	return model.RegistrationPatch{
		Status:           r.Status,
		PaymentStatus:    r.PaymentStatus,
		AttendanceStatus: r.AttendanceStatus,
	}
}

type UpdateSubmissionStatusRequest struct {
	Status      string `json:"status" validate:"required,oneof=submitted under-review approved rejected winner"`
	ReviewNotes string `json:"review_notes" validate:"max=5000"`
}

type SetAwardRequest struct {
	// Award clears the submission's award when null.
	Award *model.Award `json:"award"`
}

type SignUpRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8,max=72"`
	Phone      string `json:"phone" validate:"omitempty,phone"`
	Department string `json:"department" validate:"max=255"`
	Year       string `json:"year" validate:"max=32"`
	StudentID  string `json:"student_id" validate:"max=64"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
	Phone      *string `json:"phone" validate:"omitempty,phone"`
	Department *string `json:"department" validate:"omitempty,max=255"`
	Year       *string `json:"year" validate:"omitempty,max=32"`
	StudentID  *string `json:"student_id" validate:"omitempty,max=64"`
}

func (r UpdateProfileRequest) ToPatch() model.ProfilePatch {
	return model.ProfilePatch{
		Name:       r.Name,
		Phone:      r.Phone,
		Department: r.Department,
		Year:       r.Year,
		StudentID:  r.StudentID,
	}
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

type CreateDocumentRequest struct {
	Published *bool           `json:"published"`
	Data      json.RawMessage `json:"data" validate:"required"`
}

type UpdateDocumentRequest struct {
	Published *bool                      `json:"published"`
	Data      map[string]json.RawMessage `json:"data"`
}

type UpdateSettingsRequest struct {
	SiteName            *string `json:"site_name" validate:"omitempty,min=1,max=128"`
	Tagline             *string `json:"tagline" validate:"omitempty,max=255"`
	ContactEmail        *string `json:"contact_email" validate:"omitempty,email"`
	AnnouncementEnabled *bool   `json:"announcement_enabled"`
	AnnouncementMessage *string `json:"announcement_message" validate:"omitempty,max=500"`
	AnnouncementLink    *string `json:"announcement_link" validate:"omitempty,httpurl"`
	Instagram           *string `json:"instagram" validate:"omitempty,httpurl"`
	LinkedIn            *string `json:"linkedin" validate:"omitempty,httpurl"`
	Github              *string `json:"github" validate:"omitempty,httpurl"`
}

func (r UpdateSettingsRequest) ToPatch() model.SettingsPatch {
	return model.SettingsPatch{
		SiteName:            r.SiteName,
		Tagline:             r.Tagline,
		ContactEmail:        r.ContactEmail,
		AnnouncementEnabled: r.AnnouncementEnabled,
		AnnouncementMessage: r.AnnouncementMessage,
		AnnouncementLink:    r.AnnouncementLink,
		Instagram:           r.Instagram,
		LinkedIn:            r.LinkedIn,
		Github:              r.Github,
	}
}
