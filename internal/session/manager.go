// Package session issues and verifies the signed session token carried in
// the "token" cookie.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prudhvinik1/authflow/internal/models"
	"github.com/prudhvinik1/authflow/internal/repositories"
)

const CookieName = "token"

// ErrUnauthorized covers every verification failure: missing, malformed,
// badly signed, expired or revoked tokens are indistinguishable to callers.
var ErrUnauthorized = errors.New("unauthorized")

type Options struct {
	Secret string
	Expiry time.Duration
	// Secure marks the cookie Secure; enable outside local development.
	Secure bool
}

// Claims is the signed payload: the account id plus registered exp/iat/jti.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret      []byte
	expiry      time.Duration
	secure      bool
	revocations repositories.RevocationRepository
	now         func() time.Time
}

func NewManager(opts Options, revocations repositories.RevocationRepository) *Manager {
	return &Manager{
		secret:      []byte(opts.Secret),
		expiry:      opts.Expiry,
		secure:      opts.Secure,
		revocations: revocations,
		now:         time.Now,
	}
}

// WithClock overrides the time source used for issuing and validating tokens.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// Issue mints a signed session token for the account.
func (m *Manager) Issue(accountID uuid.UUID) (*models.Session, error) {
	now := m.now()
	s := &models.Session{
		ID:        uuid.New().String(),
		AccountID: accountID,
		ExpiresAt: now.Add(m.expiry),
		CreatedAt: now,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: accountID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	s.Token = signed
	return s, nil
}

// Verify returns the claims of a valid, unrevoked token. Any token problem
// yields ErrUnauthorized; only a failing revocation lookup returns another error.
func (m *Manager) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, ErrUnauthorized
	}

	revoked, err := m.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Revoke blacklists a token until it expires. Invalid tokens need no revocation.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil
	}
	return m.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time.Sub(m.now()))
}

func (m *Manager) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrUnauthorized
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrUnauthorized
	}

	if _, err := uuid.Parse(claims.UserID); err != nil || claims.ID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// SetCookie writes the session token as an HTTP-only cookie.
func (m *Manager) SetCookie(w http.ResponseWriter, s *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.expiry.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromRequest returns the raw cookie value, or "" when absent.
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
