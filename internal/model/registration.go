package model

import "time"

const (
	RegistrationPending    = "pending"
	RegistrationConfirmed  = "confirmed"
	RegistrationWaitlisted = "waitlisted"
	RegistrationCancelled  = "cancelled"
	RegistrationCompleted  = "completed"
)

const (
	PaymentNotRequired = "not-required"
	PaymentPending     = "pending"
	PaymentPaid        = "paid"
	PaymentRefunded    = "refunded"
)

const (
	AttendanceNotMarked = "not-marked"
	AttendancePresent   = "present"
	AttendanceAbsent    = "absent"
)

var (
	RegistrationStatuses = []string{RegistrationPending, RegistrationConfirmed, RegistrationWaitlisted, RegistrationCancelled, RegistrationCompleted}
	PaymentStatuses      = []string{PaymentNotRequired, PaymentPending, PaymentPaid, PaymentRefunded}
	AttendanceStatuses   = []string{AttendanceNotMarked, AttendancePresent, AttendanceAbsent}
)

// Participant is a copy of the user's details taken when they sign up for an
// event. Later profile edits do not touch it.
type Participant struct {
	Name       string `db:"participant_name" json:"name" validate:"required,min=2,max=255"`
	Email      string `db:"participant_email" json:"email" validate:"required,email"`
	Phone      string `db:"participant_phone" json:"phone,omitempty" validate:"max=32"`
	Department string `db:"participant_department" json:"department,omitempty" validate:"max=255"`
	Year       string `db:"participant_year" json:"year,omitempty" validate:"max=32"`
	StudentID  string `db:"participant_student_id" json:"student_id,omitempty" validate:"max=64"`
}

// Merge returns p with every empty field taken from fallback.
func (p Participant) Merge(fallback Participant) Participant {
	pick := func(v, def string) string {
		if v != "" {
			return v
		}
		return def
	}
	return Participant{
		Name:       pick(p.Name, fallback.Name),
		Email:      pick(p.Email, fallback.Email),
		Phone:      pick(p.Phone, fallback.Phone),
		Department: pick(p.Department, fallback.Department),
		Year:       pick(p.Year, fallback.Year),
		StudentID:  pick(p.StudentID, fallback.StudentID),
	}
}

type Registration struct {
	ID               int64 `db:"id" json:"id"`
	EventID          int64 `db:"event_id" json:"event_id"`
	UserID           int64 `db:"user_id" json:"user_id"`
	Participant      `json:"participant"`
	Status           string    `db:"status" json:"status"`
	PaymentStatus    string    `db:"payment_status" json:"payment_status"`
	AttendanceStatus string    `db:"attendance_status" json:"attendance_status"`
	AutoCreated      bool      `db:"auto_created" json:"auto_created"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Active reports whether the registration still counts towards the event.
func (r *Registration) Active() bool {
	return r.Status != RegistrationCancelled
}

type RegistrationPatch struct {
	Status           *string
	PaymentStatus    *string
	AttendanceStatus *string
}

// Apply copies the set fields of p onto r and returns how far the event's
// registration count moves: -1 on cancel, +1 on reinstate, 0 otherwise.
func (p RegistrationPatch) Apply(r *Registration) int {
	wasActive := r.Active()
	setString(&r.Status, p.Status)
	setString(&r.PaymentStatus, p.PaymentStatus)
	setString(&r.AttendanceStatus, p.AttendanceStatus)
	switch {
	case wasActive && !r.Active():
		return -1
	case !wasActive && r.Active():
		return 1
	}
	return 0
}

func ValidRegistrationStatus(s string) bool { return contains(RegistrationStatuses, s) }
func ValidPaymentStatus(s string) bool      { return contains(PaymentStatuses, s) }
func ValidAttendanceStatus(s string) bool   { return contains(AttendanceStatuses, s) }
