package notify

import (
	"context"

	"github.com/GaurishMcK/HR-Nexus/internal/logging"
	"go.uber.org/zap"
)

// LogNotifier stands in for email delivery by writing each event to the log.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.OrNop(logger)}
}

// Register subscribes the notifier to every event type.
func (n *LogNotifier) Register(d Dispatcher) {
	if d == nil {
		return
	}
	for _, t := range []EventType{
		EventTicketEscalated,
		EventTicketStatusChanged,
		EventTicketReplied,
		EventComplianceNotice,
	} {
		d.Subscribe(t, n.handle)
	}
}

func (n *LogNotifier) handle(ctx context.Context, event Event) error {
	n.logger.Info("notification",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int64("ticket_id", event.Message.TicketID),
		zap.String("recipient", event.Message.Recipient),
		zap.String("subject", event.Message.Subject),
		zap.Int("body_bytes", len(event.Message.Body)))
	return nil
}
