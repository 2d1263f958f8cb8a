package dto

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"clubhub/pkg/validator"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	Unauthorized = "UNAUTHORIZED"
	Forbidden    = "FORBIDDEN"

	EventNotFound        = "EVENT_NOT_FOUND"
	RegistrationNotFound = "REGISTRATION_NOT_FOUND"
	SubmissionNotFound   = "SUBMISSION_NOT_FOUND"
	UserNotFound         = "USER_NOT_FOUND"
	DocumentNotFound     = "DOCUMENT_NOT_FOUND"
	CollectionNotFound   = "COLLECTION_NOT_FOUND"

	AlreadyRegistered = "ALREADY_REGISTERED"
	AlreadySubmitted  = "ALREADY_SUBMITTED"
	EmailTaken        = "EMAIL_TAKEN"

	InvalidCredentials = "INVALID_CREDENTIALS"
)

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code   string                 `json:"code"`
	Desc   string                 `json:"desc"`
	Fields []validator.FieldError `json:"fields,omitempty"`
}

func ErrorResponse(c *ginext.Context, status int, code, desc string) {
	c.AbortWithStatusJSON(status, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	ErrorResponse(c, http.StatusBadRequest, code, desc)
}

func ValidationFailed(c *ginext.Context, ve *validator.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Response{
		Status: "error",
		Error: &Error{
			Code:   FieldIncorrect,
			Desc:   ve.Error(),
			Fields: ve.Fields,
		},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	ErrorResponse(c, http.StatusNotFound, code, desc)
}

func ConflictError(c *ginext.Context, code, desc string, data any) {
	c.AbortWithStatusJSON(http.StatusConflict, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
		Data: data,
	})
}

func UnauthorizedError(c *ginext.Context, desc string) {
	ErrorResponse(c, http.StatusUnauthorized, Unauthorized, desc)
}

func ForbiddenError(c *ginext.Context) {
	ErrorResponse(c, http.StatusForbidden, Forbidden, "You are not allowed to do this")
}

func InternalServerError(c *ginext.Context) {
	ErrorResponse(c, http.StatusInternalServerError, ServiceUnavailable, InternalError)
}

func FieldBadFormatError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldBadFormat, "Field '"+fieldName+"' has bad format")
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Status: "ok",
		Data:   data,
	})
}
