package handler

import (
	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/dto"
	"clubhub/internal/model"
)

func (h *Handler) GetSettings(c *ginext.Context) {
	dto.SuccessResponse(c, h.svc.Settings())
}

func (h *Handler) UpdateSettings(c *ginext.Context) {
	var req dto.UpdateSettingsRequest
	if !h.bind(c, &req) {
		return
	}
	s, err := h.svc.UpdateSettings(c.Request.Context(), req.ToPatch())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, s)
}

func (h *Handler) Contact(c *ginext.Context) {
	var req dto.ContactRequest
	if !h.bind(c, &req) {
		return
	}
	msg, err := h.svc.SubmitContact(c.Request.Context(), &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, msg)
}

func (h *Handler) ListContacts(c *ginext.Context) {
	msgs, err := h.svc.ListContacts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, msgs)
}
