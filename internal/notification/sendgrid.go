package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier sends account emails through the SendGrid API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *slog.Logger
}

var _ Notifier = (*SendGridNotifier)(nil)

// NewSendGridNotifier creates a notifier with the given API key and
// sender address.
func NewSendGridNotifier(apiKey, fromAddress string, logger *slog.Logger) *SendGridNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Task Manager", fromAddress),
		logger: logger.With(slog.String("component", "sendgrid_notifier")),
	}
}

// SendWelcome implements Notifier.
func (n *SendGridNotifier) SendWelcome(ctx context.Context, email, name string) error {
	subject := "Thanks for joining in!"
	body := fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name)
	return n.send(ctx, email, name, subject, body)
}

// SendAccountClosed implements Notifier.
func (n *SendGridNotifier) SendAccountClosed(ctx context.Context, email, name string) error {
	subject := "Account Cancellation"
	body := fmt.Sprintf("We are sorry to see you go, %s. How could we have kept you as a customer?", name)
	return n.send(ctx, email, name, subject, body)
}

func (n *SendGridNotifier) send(ctx context.Context, email, name, subject, body string) error {
	to := mail.NewEmail(name, email)
	message := mail.NewSingleEmail(n.from, subject, to, body, "")

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid send rejected: status %d", resp.StatusCode)
	}

	n.logger.Debug("email sent",
		slog.String("subject", subject),
		slog.Int("status", resp.StatusCode))
	return nil
}
