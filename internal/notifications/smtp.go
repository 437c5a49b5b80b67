package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
	"github.com/prudhvinik1/authflow/internal/config"
)

const (
	subjectVerification = "Verify your email"
	subjectWelcome      = "Welcome to %s"
	subjectReset        = "Reset your password"
	subjectResetSuccess = "Password Reset Successful"
)

type SMTPDispatcher struct {
	cfg     config.SMTPConfig
	appName string
	logger  *slog.Logger
	send    func(e *email.Email) error
}

func NewSMTPDispatcher(cfg config.SMTPConfig, appName string, logger *slog.Logger) *SMTPDispatcher {
	d := &SMTPDispatcher{cfg: cfg, appName: appName, logger: logger}
	d.send = d.sendSMTP
	return d
}

func (d *SMTPDispatcher) SendVerification(ctx context.Context, to, code string) error {
	return d.deliver(ctx, to, subjectVerification, verificationTemplate, map[string]string{
		"Code": code,
	})
}

func (d *SMTPDispatcher) SendWelcome(ctx context.Context, to, name string) error {
	return d.deliver(ctx, to, fmt.Sprintf(subjectWelcome, d.appName), welcomeTemplate, map[string]string{
		"Name":    name,
		"AppName": d.appName,
	})
}

func (d *SMTPDispatcher) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	return d.deliver(ctx, to, subjectReset, resetRequestTemplate, map[string]string{
		"ResetURL": resetURL,
	})
}

func (d *SMTPDispatcher) SendResetSuccess(ctx context.Context, to string) error {
	return d.deliver(ctx, to, subjectResetSuccess, resetSuccessTemplate, nil)
}

func (d *SMTPDispatcher) deliver(ctx context.Context, to, subject string, tmpl *template.Template, data any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render %q email: %w", subject, err)
	}

	e := email.NewEmail()
	e.From = fmt.Sprintf("%s <%s>", d.cfg.FromName, d.cfg.From)
	e.To = []string{to}
	e.Subject = subject
	e.HTML = body.Bytes()

	if err := d.send(e); err != nil {
		return fmt.Errorf("failed to send %q email: %w", subject, err)
	}

	d.logger.DebugContext(ctx, "email sent", "subject", subject, "to", to)
	return nil
}

func (d *SMTPDispatcher) sendSMTP(e *email.Email) error {
	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))

	var auth smtp.Auth
	if d.cfg.Username != "" {
		auth = smtp.PlainAuth("", d.cfg.Username, d.cfg.Password, d.cfg.Host)
	}
	return e.Send(addr, auth)
}
