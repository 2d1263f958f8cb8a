package handler

import (
	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/dto"
	"clubhub/internal/model"
	"clubhub/internal/service"
)

func (h *Handler) SignUp(c *ginext.Context) {
	var req dto.SignUpRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.svc.SignUp(c.Request.Context(), service.SignUpInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Profile: model.Profile{
			Phone:      req.Phone,
			Department: req.Department,
			Year:       req.Year,
			StudentID:  req.StudentID,
		},
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessCreatedResponse(c, u)
}

func (h *Handler) Login(c *ginext.Context) {
	var req dto.LoginRequest
	if !h.bind(c, &req) {
		return
	}
	token, exp, u, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, dto.LoginResponse{Token: token, ExpiresAt: exp, User: u})
}

func (h *Handler) Me(c *ginext.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	u, err := h.svc.Me(c.Request.Context(), who.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}

func (h *Handler) UpdateMe(c *ginext.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if !h.bind(c, &req) {
		return
	}
	u, err := h.svc.UpdateProfile(c.Request.Context(), who.UserID, req.ToPatch())
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, u)
}

func (h *Handler) MyRegistrations(c *ginext.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	regs, err := h.svc.MyRegistrations(c.Request.Context(), who.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, regs)
}

func (h *Handler) MySubmissions(c *ginext.Context) {
	who, ok := caller(c)
	if !ok {
		return
	}
	subs, err := h.svc.MySubmissions(c.Request.Context(), who.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	dto.SuccessResponse(c, subs)
}
