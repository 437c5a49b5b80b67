package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prudhvinik1/authflow/internal/logging"
	"github.com/prudhvinik1/authflow/internal/repositories"
	"github.com/prudhvinik1/authflow/internal/services"
	"github.com/prudhvinik1/authflow/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// outbox records the last code and reset link sent per address.
type outbox struct {
	mu        sync.Mutex
	codes     map[string]string
	links     map[string]string
	resetFail error
}

func newOutbox() *outbox {
	return &outbox{codes: make(map[string]string), links: make(map[string]string)}
}

func (o *outbox) SendVerification(_ context.Context, email, code string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes[email] = code
	return nil
}

func (o *outbox) SendWelcome(context.Context, string, string) error { return nil }

func (o *outbox) SendPasswordReset(_ context.Context, email, resetURL string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.resetFail != nil {
		return o.resetFail
	}
	o.links[email] = resetURL
	return nil
}

func (o *outbox) SendResetSuccess(context.Context, string) error { return nil }

type testServer struct {
	router   http.Handler
	outbox   *outbox
	accounts *repositories.MemoryAccountRepository
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, repositories.NewMemoryRevocationRepository())
}

func newTestServerWith(t *testing.T, revocations repositories.RevocationRepository) *testServer {
	t.Helper()

	logger := logging.Discard()
	accounts := repositories.NewMemoryAccountRepository()
	sessions := session.NewManager(session.Options{Secret: "test-secret", Expiry: time.Hour}, revocations)
	box := newOutbox()
	auth := services.NewAuthService(accounts, sessions, box, "http://localhost:5173", logger)

	return &testServer{
		router:   NewAuthHandler(auth, sessions, logger).Routes(),
		outbox:   box,
		accounts: accounts,
	}
}

type result struct {
	code    int
	body    map[string]any
	cookies []*http.Cookie
}

func (s *testServer) do(t *testing.T, method, target, body string, cookie *http.Cookie) result {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded), rec.Body.String())
	return result{code: rec.Code, body: decoded, cookies: rec.Result().Cookies()}
}

func sessionCookie(t *testing.T, res result) *http.Cookie {
	t.Helper()
	for _, c := range res.cookies {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("no %q cookie in response", session.CookieName)
	return nil
}

const signupBody = `{"email":"jane@example.com","password":"s3cret","name":"Jane"}`

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/signup", signupBody, nil)
	assert.Equal(t, http.StatusCreated, res.code)
	assert.Equal(t, true, res.body["success"])

	user, ok := res.body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", user["email"])
	assert.Equal(t, false, user["isVerified"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, user, "verificationCode")

	c := sessionCookie(t, res)
	assert.True(t, c.HttpOnly)
	assert.NotEmpty(t, c.Value)
}

func TestSignup_Errors(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/signup", signupBody, nil)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"duplicate", signupBody, "User already exists"},
		{"missing name", `{"email":"a@example.com","password":"x"}`, "All fields are required"},
		{"bad json", `{`, "All fields are required"},
		{"bad email", `{"email":"nope","password":"x","name":"A"}`, "Invalid email address"},
		{"password too long", `{"email":"a@example.com","password":"` + strings.Repeat("p", 73) + `","name":"A"}`, "Password must be at most 72 bytes"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := s.do(t, http.MethodPost, "/signup", tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, res.code)
			assert.Equal(t, false, res.body["success"])
			assert.Equal(t, tc.message, res.body["message"])
		})
	}
}

func TestVerifyEmail(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/signup", signupBody, nil)
	code := s.outbox.codes["jane@example.com"]

	res := s.do(t, http.MethodPost, "/verify-email", `{"code":"`+code+`"}`, nil)
	assert.Equal(t, http.StatusOK, res.code)
	user := res.body["user"].(map[string]any)
	assert.Equal(t, true, user["isVerified"])

	res = s.do(t, http.MethodPost, "/verify-email", `{"code":"`+code+`"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "Invalid or expired verification code", res.body["message"])
}

func TestLoginAndCheckAuth(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/signup", signupBody, nil)

	res := s.do(t, http.MethodPost, "/login", `{"email":"jane@example.com","password":"s3cret"}`, nil)
	require.Equal(t, http.StatusOK, res.code)
	cookie := sessionCookie(t, res)

	res = s.do(t, http.MethodGet, "/check-auth", "", cookie)
	assert.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, "jane@example.com", res.body["user"].(map[string]any)["email"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/signup", signupBody, nil)

	wrong := s.do(t, http.MethodPost, "/login", `{"email":"jane@example.com","password":"nope"}`, nil)
	unknown := s.do(t, http.MethodPost, "/login", `{"email":"bob@example.com","password":"s3cret"}`, nil)

	assert.Equal(t, http.StatusBadRequest, wrong.code)
	assert.Equal(t, wrong.code, unknown.code)
	assert.Equal(t, wrong.body, unknown.body)
	assert.Empty(t, wrong.cookies)
}

func TestLogout(t *testing.T) {
	s := newTestServer(t)
	res := s.do(t, http.MethodPost, "/signup", signupBody, nil)
	cookie := sessionCookie(t, res)

	res = s.do(t, http.MethodPost, "/logout", "", cookie)
	assert.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.body["success"])
	cleared := sessionCookie(t, res)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)

	res = s.do(t, http.MethodGet, "/check-auth", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, res.code)

	res = s.do(t, http.MethodPost, "/logout", "", nil)
	assert.Equal(t, http.StatusOK, res.code)
}

func TestCheckAuth(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodGet, "/check-auth", "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.code)
	assert.Equal(t, "Unauthorized", res.body["message"])

	res = s.do(t, http.MethodPost, "/signup", signupBody, nil)
	cookie := sessionCookie(t, res)
	account, err := s.accounts.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, s.accounts.Delete(context.Background(), account.ID))

	res = s.do(t, http.MethodGet, "/check-auth", "", cookie)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "User not found", res.body["message"])
}

func TestPasswordReset(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/signup", signupBody, nil)

	res := s.do(t, http.MethodPost, "/forgot-password", `{"email":"jane@example.com"}`, nil)
	require.Equal(t, http.StatusOK, res.code)
	token := path.Base(s.outbox.links["jane@example.com"])

	res = s.do(t, http.MethodGet, "/reset-password/"+token, "", nil)
	assert.Equal(t, http.StatusOK, res.code)

	res = s.do(t, http.MethodPost, "/reset-password/"+token, `{"password":"n3w-secret"}`, nil)
	assert.Equal(t, http.StatusOK, res.code)
	assert.Equal(t, true, res.body["success"])

	res = s.do(t, http.MethodPost, "/reset-password/"+token, `{"password":"again"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "Invalid or expired reset token", res.body["message"])

	res = s.do(t, http.MethodGet, "/reset-password/"+token, "", nil)
	assert.Equal(t, http.StatusBadRequest, res.code)

	res = s.do(t, http.MethodPost, "/login", `{"email":"jane@example.com","password":"n3w-secret"}`, nil)
	assert.Equal(t, http.StatusOK, res.code)
}

func TestForgotPassword_Errors(t *testing.T) {
	s := newTestServer(t)

	res := s.do(t, http.MethodPost, "/forgot-password", `{"email":"nobody@example.com"}`, nil)
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "User not found", res.body["message"])

	s.do(t, http.MethodPost, "/signup", signupBody, nil)
	s.outbox.resetFail = assert.AnError

	res = s.do(t, http.MethodPost, "/forgot-password", `{"email":"jane@example.com"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, res.code)
	assert.Equal(t, "Internal server error", res.body["message"])
	assert.NotContains(t, res.body["message"], assert.AnError.Error())
}

type unavailableRevocations struct{}

func (unavailableRevocations) Revoke(context.Context, string, time.Duration) error { return nil }

func (unavailableRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func TestCheckAuth_RevocationLookupFailure(t *testing.T) {
	s := newTestServerWith(t, unavailableRevocations{})
	res := s.do(t, http.MethodPost, "/signup", signupBody, nil)
	cookie := sessionCookie(t, res)

	res = s.do(t, http.MethodGet, "/check-auth", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, res.code)
	assert.Equal(t, false, res.body["success"])
	assert.Equal(t, "Internal server error", res.body["message"])
}
