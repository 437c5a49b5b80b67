package models

import (
	"time"

	"github.com/google/uuid"
)

// Session describes an issued session token. It is never stored; the signed
// token carries everything needed to verify it.
type Session struct {
	ID        string    `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
