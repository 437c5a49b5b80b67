package services

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/prudhvinik1/authflow/internal/utils"
)

const msgRequired = "required"

var (
	ErrInvalidEmail    = &Error{Kind: KindInvalidInput, Message: "Invalid email address"}
	ErrPasswordTooLong = &Error{Kind: KindInvalidInput, Message: "Password must be at most 72 bytes"}
)

var (
	required      = validation.Required.Error(msgRequired)
	validEmail    = is.Email.Error(ErrInvalidEmail.Message)
	passwordLimit = validation.Length(0, utils.MaxPasswordBytes).Error(ErrPasswordTooLong.Message)
)

// fieldErrors lists the non-required failures in reporting order.
var fieldErrors = []*Error{ErrInvalidEmail, ErrPasswordTooLong}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r SignupRequest) Validate() error {
	return inputError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, required, validEmail),
		validation.Field(&r.Password, required, passwordLimit),
		validation.Field(&r.Name, required),
	))
}

type VerifyEmailRequest struct {
	Code string `json:"code"`
}

func (r VerifyEmailRequest) Validate() error {
	return inputError(validation.ValidateStruct(&r,
		validation.Field(&r.Code, required),
	))
}

// LoginRequest deliberately skips email format checks so that a malformed
// address fails exactly like an unknown one.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return inputError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, required),
		validation.Field(&r.Password, required),
	))
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r ForgotPasswordRequest) Validate() error {
	return inputError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, required, validEmail),
	))
}

type ResetPasswordRequest struct {
	Token    string `json:"-"`
	Password string `json:"password"`
}

func (r ResetPasswordRequest) Validate() error {
	return inputError(validation.ValidateStruct(&r,
		validation.Field(&r.Token, required),
		validation.Field(&r.Password, required, passwordLimit),
	))
}

// inputError maps ozzo validation output onto the fixed client messages.
func inputError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return invalidInput("Invalid request")
	}

	messages := make(map[string]bool, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe != nil {
			messages[fe.Error()] = true
		}
	}
	if messages[msgRequired] {
		return ErrMissingFields
	}
	for _, e := range fieldErrors {
		if messages[e.Message] {
			return e
		}
	}
	return invalidInput("Invalid request")
}
