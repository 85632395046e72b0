package broadcast

import (
	"context"

	"go.uber.org/zap"
)

type Message struct {
	RFQID     string
	FactoryID string
	To        string
	Subject   string
	Body      string
}

// Mailer hands a rendered message to a delivery channel.
type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	Log *zap.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	m.Log.Info("rfq message",
		zap.String("rfq_id", msg.RFQID),
		zap.String("factory_id", msg.FactoryID),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.Body)))
	return nil
}
