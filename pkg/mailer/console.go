package mailer

import (
	"go.uber.org/zap"
)

// ConsoleMailer logs messages instead of sending them. It is the
// development fallback selected when no SMTP host is configured.
type ConsoleMailer struct {
	logger *zap.Logger
}

var _ Mailer = (*ConsoleMailer)(nil)

func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

func (m *ConsoleMailer) Send(msg Message) error {
	m.logger.Info("console mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)),
	)
	return nil
}
