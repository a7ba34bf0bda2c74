// Package notification sends templated account emails. Sends are
// best-effort: callers dispatch them asynchronously and failures are
// logged, never surfaced to the request that triggered them.
package notification

import (
	"context"
	"log/slog"
)

// Notifier is the outbound email seam. Implementations must be safe for
// concurrent use.
type Notifier interface {
	// SendWelcome greets a freshly signed-up user.
	SendWelcome(ctx context.Context, email, name string) error

	// SendAccountClosed says goodbye after account deletion.
	SendAccountClosed(ctx context.Context, email, name string) error
}

// NopNotifier logs instead of sending. Used in tests and when no mail
// API key is configured.
type NopNotifier struct {
	logger *slog.Logger
}

// NewNopNotifier creates a NopNotifier.
func NewNopNotifier(logger *slog.Logger) *NopNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &NopNotifier{logger: logger.With(slog.String("component", "nop_notifier"))}
}

var _ Notifier = (*NopNotifier)(nil)

// SendWelcome implements Notifier.
func (n *NopNotifier) SendWelcome(ctx context.Context, email, name string) error {
	n.logger.Info("skipping welcome email, mail disabled", "name", name)
	return nil
}

// SendAccountClosed implements Notifier.
func (n *NopNotifier) SendAccountClosed(ctx context.Context, email, name string) error {
	n.logger.Info("skipping account-closed email, mail disabled", "name", name)
	return nil
}
