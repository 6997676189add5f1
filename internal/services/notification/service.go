// Package notification delivers verification codes to users. Delivery
// mechanics live outside the core; the default implementation only logs.
package notification

import (
	"context"

	"go.uber.org/zap"
)

// Notifier dispatches a one-time verification code to a user.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, username, code string) error
}

// LogNotifier writes codes to the application log instead of sending email.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendVerificationCode(ctx context.Context, email, username, code string) error {
	n.log.Info("verification code dispatched",
		zap.String("email", email),
		zap.String("username", username))
	return nil
}
