package dto

import (
	"time"

	"clubhub/internal/lifecycle"
	"clubhub/internal/model"
)

type EventResponse struct {
	model.Event
	FullLocation string              `json:"full_location"`
	Action       *lifecycle.Decision `json:"action,omitempty"`
}

func NewEventResponse(e *model.Event, d *lifecycle.Decision) EventResponse {
	return EventResponse{Event: *e, FullLocation: e.FullLocation(), Action: d}
}

type SubmitResponse struct {
	Submission   *model.Submission   `json:"submission"`
	Registration *model.Registration `json:"registration,omitempty"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type DocumentResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Published bool      `json:"published"`
	Data      any       `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
