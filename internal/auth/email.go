package auth

import (
	"context"
	"log/slog"
)

// Email kinds the account flows may decide to send. Rendering and
// delivery belong to the mail infrastructure, not this service.
const (
	EmailActivation    = "activation"
	EmailPasswordReset = "password_reset"
	EmailEmailChanged  = "email_changed"
)

// EmailSender is the outbound port for transactional mail. The core
// decides *whether* to trigger an email; implementations decide how.
type EmailSender interface {
	Send(ctx context.Context, kind, to, token string) error
}

// LogEmailSender is the default implementation: it only logs the
// decision. Used in development and tests.
type LogEmailSender struct {
	Logger *slog.Logger
}

func (s *LogEmailSender) Send(ctx context.Context, kind, to, token string) error {
	s.Logger.Info("email send requested", "kind", kind, "to", to)
	return nil
}
