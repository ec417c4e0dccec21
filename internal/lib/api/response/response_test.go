package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidationError_Messages(t *testing.T) {
	err := validator.New().Struct(sample{Email: "nope", Password: "short"})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))

	require.Equal(t, StatusError, resp.Status)
	require.Contains(t, resp.Error, "field email is not a valid email")
	require.Contains(t, resp.Error, "field password must be between bounds (min=8)")
}

func TestOKAndError(t *testing.T) {
	require.Equal(t, Response{Status: StatusOK}, OK())
	require.Equal(t, Response{Status: StatusError, Error: "boom"}, Error("boom"))
}
