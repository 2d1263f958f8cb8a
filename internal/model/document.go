package model

import (
	"encoding/json"
	"time"
)

const (
	KindAchievement = "achievement"
	KindGallery     = "gallery"
	KindArtwork     = "artwork"
	KindOpportunity = "opportunity"
	KindMember      = "member"
)

// Document is a record of one of the ancillary site collections. Data holds
// the kind-specific body as JSON.
type Document struct {
	ID        int64           `db:"id" json:"id"`
	Kind      string          `db:"kind" json:"kind"`
	Data      json.RawMessage `db:"data" json:"data"`
	Published bool            `db:"published" json:"published"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

type Achievement struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description string     `json:"description,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	Category    string     `json:"category,omitempty" validate:"max=64"`
	ImageURL    string     `json:"image_url,omitempty" validate:"omitempty,url"`
}

type GalleryItem struct {
	Title    string `json:"title" validate:"required,max=255"`
	ImageURL string `json:"image_url" validate:"required,url"`
	Caption  string `json:"caption,omitempty"`
	EventID  *int64 `json:"event_id,omitempty"`
}

type Artwork struct {
	Title       string `json:"title" validate:"required,max=255"`
	Artist      string `json:"artist" validate:"required,max=255"`
	ImageURL    string `json:"image_url" validate:"required,url"`
	Medium      string `json:"medium,omitempty" validate:"max=64"`
	Description string `json:"description,omitempty"`
}

type Opportunity struct {
	Title        string     `json:"title" validate:"required,max=255"`
	Organization string     `json:"organization" validate:"required,max=255"`
	Description  string     `json:"description,omitempty"`
	ApplyURL     string     `json:"apply_url,omitempty" validate:"omitempty,url"`
	Deadline     *time.Time `json:"deadline,omitempty"`
}

type Member struct {
	Name       string `json:"name" validate:"required,max=255"`
	Position   string `json:"position" validate:"required,max=128"`
	Department string `json:"department,omitempty"`
	Year       string `json:"year,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty" validate:"omitempty,url"`
	Order      int    `json:"order"`
}

type ContactMessage struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Subject   string    `db:"subject" json:"subject,omitempty"`
	Message   string    `db:"message" json:"message"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
