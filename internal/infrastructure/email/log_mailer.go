package email

import (
	"context"

	"go.uber.org/zap"
)

var _ Mailer = (*LogMailer)(nil)

// LogMailer writes emails to the application log instead of delivering
// them. Used in development and whenever email delivery is disabled.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a mailer that logs messages
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger.Named("mailer")}
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.logger.Info("Email delivery (stub)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
