// Package notifications delivers the account lifecycle emails.
package notifications

import (
	"context"
	"log/slog"
)

// Dispatcher sends the four account emails. Every method may fail; callers
// decide whether a failure is fatal.
type Dispatcher interface {
	SendVerification(ctx context.Context, email, code string) error
	SendWelcome(ctx context.Context, email, name string) error
	SendPasswordReset(ctx context.Context, email, resetURL string) error
	SendResetSuccess(ctx context.Context, email string) error
}

// LogDispatcher writes notifications to the log instead of sending them.
// Used for local development when no SMTP server is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) SendVerification(ctx context.Context, email, code string) error {
	d.logger.InfoContext(ctx, "verification email", "to", email, "code", code)
	return nil
}

func (d *LogDispatcher) SendWelcome(ctx context.Context, email, name string) error {
	d.logger.InfoContext(ctx, "welcome email", "to", email, "name", name)
	return nil
}

func (d *LogDispatcher) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	d.logger.InfoContext(ctx, "password reset email", "to", email, "link", resetURL)
	return nil
}

func (d *LogDispatcher) SendResetSuccess(ctx context.Context, email string) error {
	d.logger.InfoContext(ctx, "password reset success email", "to", email)
	return nil
}
