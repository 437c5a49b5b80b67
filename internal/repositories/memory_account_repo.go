package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/authflow/internal/models"
)

// MemoryAccountRepository keeps accounts in process memory. Used by tests and
// by the server when STORE_DRIVER=memory.
type MemoryAccountRepository struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*models.Account
	byEmail  map[string]uuid.UUID
	now      func() time.Time
}

func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		accounts: make(map[uuid.UUID]*models.Account),
		byEmail:  make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

func (r *MemoryAccountRepository) Create(ctx context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return ErrEmailTaken
	}

	now := r.now()
	account.ID = uuid.New()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.accounts[account.ID] = account.Clone()
	r.byEmail[account.Email] = account.ID
	return nil
}

func (r *MemoryAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return account.Clone(), nil
}

func (r *MemoryAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return r.accounts[id].Clone(), nil
}

func (r *MemoryAccountRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.HasValidResetToken(token, now) {
			return account.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.LastLoginAt = &at
	account.UpdatedAt = r.now()
	return nil
}

func (r *MemoryAccountRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.ResetToken = &token
	account.ResetTokenExpiresAt = &expiresAt
	account.UpdatedAt = r.now()
	return nil
}

func (r *MemoryAccountRepository) ConsumeVerificationCode(ctx context.Context, code string, now time.Time) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if !account.HasValidVerificationCode(code, now) {
			continue
		}
		account.IsVerified = true
		account.ClearVerification()
		account.UpdatedAt = r.now()
		return account.Clone(), nil
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if !account.HasValidResetToken(token, now) {
			continue
		}
		account.PasswordHash = passwordHash
		account.ClearReset()
		account.UpdatedAt = r.now()
		return account.Clone(), nil
	}
	return nil, ErrNotFound
}

// Delete removes an account. Only tests use it; the service has no deletion path.
func (r *MemoryAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byEmail, account.Email)
	delete(r.accounts, id)
	return nil
}
