// Package notification delivers password-reset tokens to users. Delivery
// mechanics are out of scope for the core; the shipped implementation logs
// the hand-off. Delivery is fire-and-forget: a failure never rolls back
// token issuance.
package notification

import (
	"context"
	"time"

	"github.com/tenauth/tenauth/internal/logging"
)

// ResetNotification carries everything a delivery channel needs to reach
// the user with their reset token.
type ResetNotification struct {
	Email       string
	Token       string
	CallbackURL string
	ExpiresAt   time.Time
}

// Notifier hands a reset token to a delivery channel.
type Notifier interface {
	SendPasswordReset(ctx context.Context, n ResetNotification) error
}

// LogNotifier records the hand-off in the structured log. It stands in for
// a mail channel in development and keeps the token value out of the log.
type LogNotifier struct {
	logger logging.Logger
	from   string
}

func NewLogNotifier(logger logging.Logger, from string) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notification"), from: from}
}

func (n *LogNotifier) SendPasswordReset(ctx context.Context, msg ResetNotification) error {
	n.logger.Info(ctx, "password reset notification",
		"from", n.from,
		"to", msg.Email,
		"callback_url", msg.CallbackURL,
		"expires_at", msg.ExpiresAt,
	)
	return nil
}
