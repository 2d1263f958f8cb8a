package handler

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/dto"
	"clubhub/internal/model"
)

// ListEvents serves GET /events?status=&type=&upcoming=true.
func (h *Handler) ListEvents(c *ginext.Context) {
	f := model.EventFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
	}
	if f.Status != "" && !model.ValidEventStatus(f.Status) {
		dto.FieldIncorrectError(c, "status")
		return
	}
	if f.Type != "" && !model.ValidEventType(f.Type) {
		dto.FieldIncorrectError(c, "type")
		return
	}
	if c.Query("upcoming") == "true" {
		now := h.svc.Now()
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		f.From = &from
	}

	events, err := h.svc.ListEvents(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		out = append(out, dto.NewEventResponse(&events[i], nil))
	}
	dto.SuccessResponse(c, out)
}

// GetEvent returns the event with the action the caller may take on it.
func (h *Handler) GetEvent(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	e, decision, err := h.svc.EventAction(c.Request.Context(), id, identity(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewEventResponse(e, &decision))
}

func (h *Handler) CreateEvent(c *ginext.Context) {
	var req dto.CreateEventRequest
	if !h.bind(c, &req) {
		return
	}
	e, err := h.svc.CreateEvent(c.Request.Context(), req.ToModel())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, dto.NewEventResponse(e, nil))
}

func (h *Handler) UpdateEvent(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if !h.bind(c, &req) {
		return
	}
	e, err := h.svc.UpdateEvent(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, dto.NewEventResponse(e, nil))
}

func (h *Handler) DeleteEvent(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteEvent(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, map[string]int64{"id": id})
}

func (h *Handler) ListEventRegistrations(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	regs, err := h.svc.ListRegistrations(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, regs)
}

func (h *Handler) ListEventSubmissions(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	subs, err := h.svc.ListSubmissions(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, subs)
}
