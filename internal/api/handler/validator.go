package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate satisfies the echo.Validator interface. Failures are returned as
// validator.ValidationErrors; handlers pick the client message.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}

// failedTag returns the rule that decides the response message. A missing
// field outranks every other rule.
func failedTag(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return ""
	}
	for _, fe := range ve {
		if fe.Tag() == "required" {
			return "required"
		}
	}
	return ve[0].Tag()
}
