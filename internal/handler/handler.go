// Package handler binds HTTP requests to the service and maps its errors to
// the response envelope.
package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/auth"
	"clubhub/internal/dto"
	"clubhub/internal/lifecycle"
	"clubhub/internal/repo"
	"clubhub/internal/service"
	"clubhub/pkg/validator"
)

type Handler struct {
	svc *service.Service
	log *zerolog.Logger
}

func New(svc *service.Service, log *zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// bind decodes the JSON body into req and validates it. It writes the error
// response itself and reports whether the handler may continue.
func (h *Handler) bind(c *ginext.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.log.Debug().Err(err).Str("path", c.FullPath()).Msg("failed to parse request body")
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid JSON format")
		return false
	}
	return h.validate(c, req)
}

// bindOptional is bind for endpoints whose body may be left out.
func (h *Handler) bindOptional(c *ginext.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		h.log.Debug().Err(err).Str("path", c.FullPath()).Msg("failed to parse request body")
		dto.BadResponseError(c, dto.FieldBadFormat, "Invalid JSON format")
		return false
	}
	return h.validate(c, req)
}

func (h *Handler) validate(c *ginext.Context, req any) bool {
	if err := validator.Validate(c.Request.Context(), req); err != nil {
		h.fail(c, err)
		return false
	}
	return true
}

func (h *Handler) pathID(c *ginext.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		dto.FieldIncorrectError(c, name)
		return 0, false
	}
	return id, true
}

// identity returns the caller set by the auth middleware, or nil.
func identity(c *ginext.Context) *auth.Identity {
	v, ok := c.Get(auth.IdentityKey)
	if !ok {
		return nil
	}
	id, ok := v.(auth.Identity)
	if !ok {
		return nil
	}
	return &id
}

// caller is identity for routes behind the required auth middleware.
func caller(c *ginext.Context) (auth.Identity, bool) {
	id := identity(c)
	if id == nil {
		dto.UnauthorizedError(c, "Authentication required")
		return auth.Identity{}, false
	}
	return *id, true
}

func (h *Handler) fail(c *ginext.Context, err error) {
	var (
		ve *validator.ValidationError
		pe *lifecycle.PreconditionError
	)
	switch {
	case errors.As(err, &ve):
		dto.ValidationFailed(c, ve)
	case errors.As(err, &pe):
		dto.BadResponseError(c, string(pe.Reason), pe.Error())
	case errors.Is(err, repo.ErrEventNotFound):
		dto.NotFoundError(c, dto.EventNotFound, "Event not found")
	case errors.Is(err, repo.ErrRegistrationNotFound):
		dto.NotFoundError(c, dto.RegistrationNotFound, "Registration not found")
	case errors.Is(err, repo.ErrSubmissionNotFound):
		dto.NotFoundError(c, dto.SubmissionNotFound, "Submission not found")
	case errors.Is(err, repo.ErrUserNotFound):
		dto.NotFoundError(c, dto.UserNotFound, "User not found")
	case errors.Is(err, repo.ErrDocumentNotFound):
		dto.NotFoundError(c, dto.DocumentNotFound, "Document not found")
	case errors.Is(err, service.ErrUnknownKind):
		dto.NotFoundError(c, dto.CollectionNotFound, "Unknown collection")
	case errors.Is(err, service.ErrAlreadyRegistered):
		dto.ConflictError(c, dto.AlreadyRegistered, err.Error(), nil)
	case errors.Is(err, service.ErrAlreadySubmitted):
		dto.ConflictError(c, dto.AlreadySubmitted, err.Error(), nil)
	case errors.Is(err, repo.ErrEmailTaken):
		dto.ConflictError(c, dto.EmailTaken, "Email is already registered", nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		dto.ErrorResponse(c, http.StatusUnauthorized, dto.InvalidCredentials, err.Error())
	default:
		h.log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("request failed")
		dto.InternalServerError(c)
	}
}
