package mail

import (
	"context"
	"log/slog"
)

// LogGateway writes messages to the log instead of delivering them.
// It is the default in development, when no SMTP host is configured.
type LogGateway struct {
	log *slog.Logger
}

// NewLogGateway returns a Gateway that logs every message at info level.
func NewLogGateway(log *slog.Logger) *LogGateway {
	return &LogGateway{log: log}
}

// Send logs the envelope and the text body and returns a synthetic delivery.
func (g *LogGateway) Send(ctx context.Context, msg Message) (Delivery, error) {
	if err := ctx.Err(); err != nil {
		return Delivery{}, err
	}
	d := Delivery{MessageID: newMessageID(msg.From.Email)}
	g.log.InfoContext(ctx, "mail not sent: no smtp host configured",
		"message_id", d.MessageID,
		"from", msg.From.String(),
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.TextBody,
	)
	return d, nil
}
