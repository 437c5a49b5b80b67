package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/authflow/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// AccountRepository persists accounts. Writes touch only the columns they
// own, so a login or reset request never overwrites a concurrent consume.
// Consume* methods find and clear a single-use code in one conditional
// write, so two callers presenting the same code cannot both succeed.
type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	ConsumeVerificationCode(ctx context.Context, code string, now time.Time) (*models.Account, error)
	ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.Account, error)
}

// RevocationRepository remembers logged-out sessions for the remaining
// lifetime of their tokens.
type RevocationRepository interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
