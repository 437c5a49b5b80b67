package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		req  interface{ Validate() error }
		want error
	}{
		{"signup ok", SignupRequest{Email: "a@example.com", Password: "pw", Name: "A"}, nil},
		{"signup empty", SignupRequest{}, ErrMissingFields},
		{"signup bad email", SignupRequest{Email: "a@", Password: "pw", Name: "A"}, ErrInvalidEmail},
		{"signup bad email and missing name", SignupRequest{Email: "a@", Password: "pw"}, ErrMissingFields},
		{"verify ok", VerifyEmailRequest{Code: "123456"}, nil},
		{"verify empty", VerifyEmailRequest{}, ErrMissingFields},
		{"login ok", LoginRequest{Email: "a@example.com", Password: "pw"}, nil},
		{"login malformed email passes", LoginRequest{Email: "not-an-email", Password: "pw"}, nil},
		{"login missing password", LoginRequest{Email: "a@example.com"}, ErrMissingFields},
		{"forgot ok", ForgotPasswordRequest{Email: "a@example.com"}, nil},
		{"forgot bad email", ForgotPasswordRequest{Email: "nope"}, ErrInvalidEmail},
		{"reset ok", ResetPasswordRequest{Token: "abc", Password: "pw"}, nil},
		{"reset missing token", ResetPasswordRequest{Password: "pw"}, ErrMissingFields},
		{"signup password at limit", SignupRequest{Email: "a@example.com", Password: strings.Repeat("p", 72), Name: "A"}, nil},
		{"signup password too long", SignupRequest{Email: "a@example.com", Password: strings.Repeat("p", 73), Name: "A"}, ErrPasswordTooLong},
		{"signup password too long in bytes", SignupRequest{Email: "a@example.com", Password: strings.Repeat("ü", 40), Name: "A"}, ErrPasswordTooLong},
		{"reset password too long", ResetPasswordRequest{Token: "abc", Password: strings.Repeat("p", 80)}, ErrPasswordTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
