package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prudhvinik1/authflow/internal/services"
	"github.com/prudhvinik1/authflow/internal/session"
)

type AuthHandler struct {
	auth     *services.AuthService
	sessions *session.Manager
	logger   *slog.Logger
}

func NewAuthHandler(auth *services.AuthService, sessions *session.Manager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logger: logger}
}

// Routes returns the auth router, meant to be mounted at /api/auth.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.Signup)
	r.Post("/verify-email", h.VerifyEmail)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
	r.Post("/forgot-password", h.ForgotPassword)
	r.Get("/reset-password/{token}", h.CheckResetToken)
	r.Post("/reset-password/{token}", h.ResetPassword)

	r.With(h.sessions.RequireSession(h.sessionError)).Get("/check-auth", h.CheckAuth)

	return r
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req services.SignupRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.auth.Signup(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.sessions.SetCookie(w, res.Session)
	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "User created successfully",
		User:    res.Account,
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyEmailRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	account, err := h.auth.VerifyEmail(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Email verified successfully",
		User:    account,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.sessions.SetCookie(w, res.Session)
	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Logged in successfully",
		User:    res.Account,
	})
}

// Logout always succeeds, with or without a session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context(), session.TokenFromRequest(r))
	h.sessions.ClearCookie(w)
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Logged out successfully"})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req services.ForgotPasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.auth.ForgotPassword(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: "Password reset link sent to your email"})
}

func (h *AuthHandler) CheckResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.CheckResetToken(r.Context(), chi.URLParam(r, "token")); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, response{Success: true, Message: "Reset token is valid"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req services.ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Token = chi.URLParam(r, "token")

	if err := h.auth.ResetPassword(r.Context(), req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, Message: "Password reset successful"})
}

// sessionError renders RequireSession rejections. Anything other than a bad
// token is an infrastructure failure and goes out as an internal error.
func (h *AuthHandler) sessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrUnauthorized) {
		err = services.ErrUnauthorized
	}
	writeError(w, r, h.logger, err)
}

func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	accountID, ok := session.AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, services.ErrUnauthorized)
		return
	}

	account, err := h.auth.CheckAuth(r.Context(), accountID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Success: true, User: account})
}
