package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	EventInspectionCompleted = "inspection.completed"
	EventInspectionQuotation = "inspection.quotation"
	EventRepairCompleted     = "repair.completed"
	EventRepairQuotation     = "repair.quotation"
)

// Event stands in for the templated mails sent at completion and quotation
// points. Delivery is best effort.
type Event struct {
	Type          string     `json:"type"`
	EntityType    string     `json:"entity_type"`
	EntityID      uuid.UUID  `json:"entity_id"`
	Number        string     `json:"number"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	CustomerEmail string     `json:"customer_email,omitempty"`
	SaleOrderID   *uuid.UUID `json:"sale_order_id,omitempty"`
	OccurredAt    time.Time  `json:"occurred_at"`
}

type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// LogNotifier writes events to the service log. Used when NATS is not
// configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, event Event) error {
	n.log.Info().
		Str("event", event.Type).
		Str("entity_type", event.EntityType).
		Str("entity_id", event.EntityID.String()).
		Str("number", event.Number).
		Msg("notification")
	return nil
}

type publisher interface {
	Publish(subject string, data []byte) error
}

// NATSNotifier publishes events as JSON on <prefix>.<event type>.
type NATSNotifier struct {
	pub    publisher
	prefix string
}

func NewNATSNotifier(pub publisher, prefix string) *NATSNotifier {
	return &NATSNotifier{pub: pub, prefix: prefix}
}

func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("vehicle-repair-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return conn, nil
}

func (n *NATSNotifier) Subject(eventType string) string {
	if n.prefix == "" {
		return eventType
	}
	return n.prefix + "." + eventType
}

func (n *NATSNotifier) Notify(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return n.pub.Publish(n.Subject(event.Type), data)
}
