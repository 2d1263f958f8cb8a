package model

import "time"

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

type Profile struct {
	Phone      string `db:"phone" json:"phone,omitempty"`
	Department string `db:"department" json:"department,omitempty"`
	Year       string `db:"year" json:"year,omitempty"`
	StudentID  string `db:"student_id" json:"student_id,omitempty"`
}

type User struct {
	ID           int64  `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	PasswordHash []byte `db:"password_hash" json:"-"`
	Role         string `db:"role" json:"role"`
	Profile
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Participant is the snapshot a registration takes of this user.
func (u *User) Participant() Participant {
	return Participant{
		Name:       u.Name,
		Email:      u.Email,
		Phone:      u.Phone,
		Department: u.Department,
		Year:       u.Year,
		StudentID:  u.StudentID,
	}
}

type ProfilePatch struct {
	Name       *string
	Phone      *string
	Department *string
	Year       *string
	StudentID  *string
}

func (p ProfilePatch) Apply(u *User) {
	setString(&u.Name, p.Name)
	setString(&u.Phone, p.Phone)
	setString(&u.Department, p.Department)
	setString(&u.Year, p.Year)
	setString(&u.StudentID, p.StudentID)
}
