package validator

import (
	"context"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"
)

var (
	global     *validator.Validate
	phoneRegex = regexp.MustCompile(`^\+?[0-9 \-]{7,20}$`)
)

const (
	ErrInvalidFormat      = "Invalid format"
	ErrFieldRequired      = "Field is required"
	ErrFieldExceedsMaxLen = "Field exceeds maximum length"
	ErrFieldBelowMinLen   = "Field is below minimum length"
	ErrFieldExceedsMaxVal = "Field exceeds maximum value"
	ErrFieldBelowMinVal   = "Field is below minimum value"
	ErrNotPositive        = "Value must be positive"
	ErrUnknownValidation  = "Unknown validation error"
)

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("httpurl", validateHTTPURL)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("positive", validatePositiveInt)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// IsHTTPURL reports whether s is an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateHTTPURL(fl validator.FieldLevel) bool {
	return IsHTTPURL(fl.Field().String())
}

func validatePhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

// validatePositiveInt accepts any integer kind above zero.
func validatePositiveInt(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return f.Int() > 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return f.Uint() > 0
	}
	return false
}

// FieldError describes a problem with a single input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError carries every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error+": "+f.Field)
	}
	return strings.Join(parts, "; ")
}

// NewValidationError builds a *ValidationError for checks done outside of
// struct tags.
func NewValidationError(fields ...FieldError) error {
	return &ValidationError{Fields: fields}
}

// Validate checks structure against its validate tags and returns a
// *ValidationError listing every failed field.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	vErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	if len(vErrors) == 0 {
		return nil
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(vErrors))}
	for _, ve := range vErrors {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(ve.Namespace()), Error: message(ve)})
	}
	return out
}

// fieldPath drops the root struct name from a namespace like
// "CreateEventRequest.title".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return ErrFieldRequired
	case "max":
		return ErrFieldExceedsMaxLen
	case "min":
		return ErrFieldBelowMinLen
	case "lt", "lte":
		return ErrFieldExceedsMaxVal
	case "gt", "gte":
		return ErrFieldBelowMinVal
	case "email", "url", "httpurl", "phone", "oneof":
		return ErrInvalidFormat
	case "positive":
		return ErrNotPositive
	default:
		return ErrUnknownValidation
	}
}
