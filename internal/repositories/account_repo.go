package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prudhvinik1/authflow/internal/models"
)

const uniqueViolation = "23505"

const accountColumns = `id, email, name, password_hash, is_verified,
	verification_code, verification_code_expires_at,
	reset_token, reset_token_expires_at,
	last_login_at, created_at, updated_at`

type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `INSERT INTO accounts (email, name, password_hash, is_verified, verification_code, verification_code_expires_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.IsVerified,
		account.VerificationCode,
		account.VerificationCodeExpiresAt,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.queryOne(ctx, "get account", query, id)
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return r.queryOne(ctx, "get account", query, email)
}

func (r *PostgresAccountRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
	          WHERE reset_token = $1 AND reset_token_expires_at > $2
	          LIMIT 1`
	return r.queryOne(ctx, "get account by reset token", query, token, now)
}

func (r *PostgresAccountRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE accounts
	          SET last_login_at = $2,
	              updated_at = NOW()
	          WHERE id = $1`

	return r.exec(ctx, "record login", query, id, at)
}

// SetResetToken stores a pending reset token, replacing any earlier one.
func (r *PostgresAccountRepository) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	query := `UPDATE accounts
	          SET reset_token = $2,
	              reset_token_expires_at = $3,
	              updated_at = NOW()
	          WHERE id = $1`

	return r.exec(ctx, "set reset token", query, id, token, expiresAt)
}

// ConsumeVerificationCode marks the matching account verified and clears the code.
// The row lock in the subquery makes a concurrent consumer re-check the
// predicate after the first commit and find nothing.
func (r *PostgresAccountRepository) ConsumeVerificationCode(ctx context.Context, code string, now time.Time) (*models.Account, error) {
	query := `UPDATE accounts
	          SET is_verified = TRUE,
	              verification_code = NULL,
	              verification_code_expires_at = NULL,
	              updated_at = NOW()
	          WHERE id = (
	              SELECT id FROM accounts
	              WHERE verification_code = $1 AND verification_code_expires_at > $2
	              LIMIT 1
	              FOR UPDATE
	          )
	          AND verification_code = $1 AND verification_code_expires_at > $2
	          RETURNING ` + accountColumns

	return r.queryOne(ctx, "consume verification code", query, code, now)
}

// ConsumeResetToken replaces the password hash and clears the reset token.
func (r *PostgresAccountRepository) ConsumeResetToken(ctx context.Context, token, passwordHash string, now time.Time) (*models.Account, error) {
	query := `UPDATE accounts
	          SET password_hash = $3,
	              reset_token = NULL,
	              reset_token_expires_at = NULL,
	              updated_at = NOW()
	          WHERE id = (
	              SELECT id FROM accounts
	              WHERE reset_token = $1 AND reset_token_expires_at > $2
	              LIMIT 1
	              FOR UPDATE
	          )
	          AND reset_token = $1 AND reset_token_expires_at > $2
	          RETURNING ` + accountColumns

	return r.queryOne(ctx, "consume reset token", query, token, now, passwordHash)
}

func (r *PostgresAccountRepository) exec(ctx context.Context, op, query string, args ...any) error {
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) queryOne(ctx context.Context, op, query string, args ...any) (*models.Account, error) {
	account, err := scanAccount(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&account.PasswordHash,
		&account.IsVerified,
		&account.VerificationCode,
		&account.VerificationCodeExpiresAt,
		&account.ResetToken,
		&account.ResetTokenExpiresAt,
		&account.LastLoginAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}
