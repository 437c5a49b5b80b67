package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/prudhvinik1/authflow/internal/models"
	"github.com/prudhvinik1/authflow/internal/notifications"
	"github.com/prudhvinik1/authflow/internal/repositories"
	"github.com/prudhvinik1/authflow/internal/utils"
)

// SessionIssuer mints session tokens and revokes them on logout.
type SessionIssuer interface {
	Issue(accountID uuid.UUID) (*models.Session, error)
	Revoke(ctx context.Context, token string) error
}

// AuthService drives the account lifecycle: signup, email verification,
// login/logout and the password reset flow.
//
// State is persisted before the matching notification is sent. Verification,
// welcome and reset-success emails are best-effort: a failed send is logged and
// the operation still succeeds. The reset-request email is the only way to
// deliver the reset link, so its failure is returned; the stored token stays
// and a repeated request overwrites it.
type AuthService struct {
	accounts  repositories.AccountRepository
	sessions  SessionIssuer
	notifier  notifications.Dispatcher
	clientURL string
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*AuthService)

// WithClock injects the time source used for code expiry and login timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *AuthService) {
		if now != nil {
			s.now = now
		}
	}
}

// AuthResult is returned by operations that start a session.
type AuthResult struct {
	Account *models.Account
	Session *models.Session
}

func NewAuthService(
	accounts repositories.AccountRepository,
	sessions SessionIssuer,
	notifier notifications.Dispatcher,
	clientURL string,
	logger *slog.Logger,
	opts ...Option,
) *AuthService {
	s := &AuthService{
		accounts:  accounts,
		sessions:  sessions,
		notifier:  notifier,
		clientURL: clientURL,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Check if email already exists
	_, err := s.accounts.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, expiresAt := utils.NewVerificationCode(s.now())
	account := &models.Account{
		Email:                     req.Email,
		Name:                      req.Name,
		PasswordHash:              hashedPassword,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &expiresAt,
	}

	// The unique index still catches a concurrent signup that passed the check above.
	if err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	session, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.notifyBestEffort(ctx, "verification", account.ID, func() error {
		return s.notifier.SendVerification(ctx, account.Email, code)
	})

	s.logger.InfoContext(ctx, "account created", "account_id", account.ID)

	return &AuthResult{Account: account, Session: session}, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, req VerifyEmailRequest) (*models.Account, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.ConsumeVerificationCode(ctx, req.Code, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to verify email: %w", err)
	}

	s.notifyBestEffort(ctx, "welcome", account.ID, func() error {
		return s.notifier.SendWelcome(ctx, account.Email, account.Name)
	})

	s.logger.InfoContext(ctx, "email verified", "account_id", account.ID)

	return account, nil
}

// Login never reveals whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if !utils.CheckPassword(account.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.accounts.RecordLogin(ctx, account.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	account.LastLoginAt = &now

	session, err := s.sessions.Issue(account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &AuthResult{Account: account, Session: session}, nil
}

// Logout revokes the presented session token if there is one. It always succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	if err := s.sessions.Revoke(ctx, token); err != nil {
		s.logger.WarnContext(ctx, "failed to revoke session", "error", err)
	}
}

// ForgotPassword stores a fresh reset token, replacing any pending one, and
// emails the reset link. Unknown emails return ErrAccountNotFound.
func (s *AuthService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get account: %w", err)
	}

	token, expiresAt, err := utils.NewResetToken(s.now())
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.accounts.SetResetToken(ctx, account.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	link, err := s.resetURL(token)
	if err != nil {
		return err
	}

	if err := s.notifier.SendPasswordReset(ctx, account.Email, link); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.logger.InfoContext(ctx, "password reset requested", "account_id", account.ID)

	return nil
}

// CheckResetToken reports whether a reset token is still usable without consuming it.
func (s *AuthService) CheckResetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrMissingFields
	}

	_, err := s.accounts.GetByResetToken(ctx, token, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("failed to check reset token: %w", err)
	}
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := s.accounts.ConsumeResetToken(ctx, req.Token, hashedPassword, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	s.notifyBestEffort(ctx, "reset_success", account.ID, func() error {
		return s.notifier.SendResetSuccess(ctx, account.Email)
	})

	s.logger.InfoContext(ctx, "password reset", "account_id", account.ID)

	return nil
}

// CheckAuth resolves the account behind a verified session.
func (s *AuthService) CheckAuth(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

func (s *AuthService) resetURL(token string) (string, error) {
	link, err := url.JoinPath(s.clientURL, "reset-password", token)
	if err != nil {
		return "", fmt.Errorf("failed to build reset link: %w", err)
	}
	return link, nil
}

func (s *AuthService) notifyBestEffort(ctx context.Context, kind string, accountID uuid.UUID, send func() error) {
	if err := send(); err != nil {
		s.logger.WarnContext(ctx, "notification failed",
			"kind", kind,
			"account_id", accountID,
			"error", err,
		)
	}
}
