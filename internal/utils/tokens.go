package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"time"
)

const (
	VerificationCodeTTL = 24 * time.Hour
	ResetTokenTTL       = 1 * time.Hour

	resetTokenBytes = 20
)

// NewVerificationCode returns a six digit code and its expiry.
// The code comes from math/rand, not crypto/rand.
func NewVerificationCode(now time.Time) (string, time.Time) {
	code := 100000 + mrand.IntN(900000)
	return fmt.Sprintf("%06d", code), now.Add(VerificationCodeTTL)
}

// NewResetToken returns a 40 character hex token and its expiry.
func NewResetToken(now time.Time) (string, time.Time, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), now.Add(ResetTokenTTL), nil
}
