package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the sole persisted entity. Secrets never leave the server:
// the password hash, verification code and reset token are excluded from JSON.
type Account struct {
	ID                        uuid.UUID  `json:"id"`
	Email                     string     `json:"email"`
	Name                      string     `json:"name"`
	PasswordHash              string     `json:"-"`
	IsVerified                bool       `json:"isVerified"`
	VerificationCode          *string    `json:"-"`
	VerificationCodeExpiresAt *time.Time `json:"verificationCodeExpiresAt,omitempty"`
	ResetToken                *string    `json:"-"`
	ResetTokenExpiresAt       *time.Time `json:"resetTokenExpiresAt,omitempty"`
	LastLoginAt               *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	UpdatedAt                 time.Time  `json:"updatedAt"`
}

// HasValidResetToken reports whether token matches the pending reset token and is unexpired at now.
func (a *Account) HasValidResetToken(token string, now time.Time) bool {
	return a.ResetToken != nil && *a.ResetToken == token &&
		a.ResetTokenExpiresAt != nil && now.Before(*a.ResetTokenExpiresAt)
}

// HasValidVerificationCode reports whether code matches the pending code and is unexpired at now.
func (a *Account) HasValidVerificationCode(code string, now time.Time) bool {
	return a.VerificationCode != nil && *a.VerificationCode == code &&
		a.VerificationCodeExpiresAt != nil && now.Before(*a.VerificationCodeExpiresAt)
}

func (a *Account) ClearVerification() {
	a.VerificationCode = nil
	a.VerificationCodeExpiresAt = nil
}

func (a *Account) ClearReset() {
	a.ResetToken = nil
	a.ResetTokenExpiresAt = nil
}

// Clone returns a deep copy so callers cannot mutate shared state through pointers.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.VerificationCode = cloneString(a.VerificationCode)
	c.VerificationCodeExpiresAt = cloneTime(a.VerificationCodeExpiresAt)
	c.ResetToken = cloneString(a.ResetToken)
	c.ResetTokenExpiresAt = cloneTime(a.ResetTokenExpiresAt)
	c.LastLoginAt = cloneTime(a.LastLoginAt)
	return &c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
