package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title" validate:"required,max=10"`
	Link  string `json:"link" validate:"omitempty,httpurl"`
	Email string `json:"email" validate:"required,email"`
}

func TestValidateCollectsEveryField(t *testing.T) {
	err := Validate(context.Background(), sample{Title: "much too long a title", Link: "ftp://files", Email: "nope"})
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.ElementsMatch(t, []FieldError{
		{Field: "title", Error: ErrFieldExceedsMaxLen},
		{Field: "link", Error: ErrInvalidFormat},
		{Field: "email", Error: ErrInvalidFormat},
	}, ve.Fields)
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, Validate(context.Background(), sample{Title: "ok", Email: "a@b.co"}))
}

func TestIsHTTPURL(t *testing.T) {
	for s, want := range map[string]bool{
		"https://drive.example.com/file/1": true,
		"http://example.com":               true,
		"ftp://example.com/x":              false,
		"/relative/path":                   false,
		"https://":                         false,
		"not a url":                        false,
	} {
		assert.Equal(t, want, IsHTTPURL(s), s)
	}
}

type ranked struct {
	Position int   `json:"position" validate:"positive"`
	UserID   int64 `json:"user_id" validate:"positive"`
	Seats    uint  `json:"seats" validate:"positive"`
}

func TestValidatePositive(t *testing.T) {
	assert.NoError(t, Validate(context.Background(), ranked{Position: 1, UserID: 42, Seats: 3}))

	err := Validate(context.Background(), ranked{Position: 0, UserID: -1, Seats: 0})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.ElementsMatch(t, []FieldError{
		{Field: "position", Error: ErrNotPositive},
		{Field: "user_id", Error: ErrNotPositive},
		{Field: "seats", Error: ErrNotPositive},
	}, ve.Fields)
}
