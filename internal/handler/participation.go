package handler

import (
	"github.com/pkg/errors"
	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/dto"
	"clubhub/internal/service"
)

// Register signs the caller up for the event. The body is optional and
// overrides profile fields in the registration.
func (h *Handler) Register(c *ginext.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ParticipantRequest
	if !h.bindOptional(c, &req) {
		return
	}

	reg, err := h.svc.Register(c.Request.Context(), eventID, who.UserID, req.ToModel())
	if errors.Is(err, service.ErrAlreadyRegistered) {
		dto.ConflictError(c, dto.AlreadyRegistered, err.Error(), reg)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, reg)
}

func (h *Handler) Submit(c *ginext.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	eventID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SubmitRequest
	if !h.bind(c, &req) {
		return
	}

	sub, reg, err := h.svc.Submit(c.Request.Context(), eventID, who.UserID, service.SubmissionInput{
		Title:       req.Title,
		Description: req.Description,
		MainFileURL: req.MainFileURL,
		Participant: req.Participant.ToModel(),
	})
	if errors.Is(err, service.ErrAlreadySubmitted) {
		dto.ConflictError(c, dto.AlreadySubmitted, err.Error(), sub)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, dto.SubmitResponse{Submission: sub, Registration: reg})
}

// RegisterOnBehalf lets an admin register any user, ignoring deadlines.
func (h *Handler) RegisterOnBehalf(c *ginext.Context) {
	eventID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AdminRegisterRequest
	if !h.bind(c, &req) {
		return
	}

	reg, err := h.svc.RegisterOnBehalf(c.Request.Context(), eventID, req.UserID, req.ParticipantRequest.ToModel())
	if errors.Is(err, service.ErrAlreadyRegistered) {
		dto.ConflictError(c, dto.AlreadyRegistered, err.Error(), reg)
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, reg)
}

func (h *Handler) UpdateRegistration(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRegistrationRequest
	if !h.bind(c, &req) {
		return
	}
	reg, err := h.svc.UpdateRegistration(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, reg)
}

func (h *Handler) UpdateSubmissionStatus(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSubmissionStatusRequest
	if !h.bind(c, &req) {
		return
	}
	sub, err := h.svc.UpdateSubmissionStatus(c.Request.Context(), id, req.Status, req.ReviewNotes)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, sub)
}

func (h *Handler) SetAward(c *ginext.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetAwardRequest
	if !h.bind(c, &req) {
		return
	}
	sub, err := h.svc.SetAward(c.Request.Context(), id, req.Award)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, sub)
}
