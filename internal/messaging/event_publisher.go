package messaging

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/events"
	"github.com/service-bay/ticket-service/internal/observability"
)

// Producer writes a keyed message to the broker.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
}

// EventPublisher forwards ticket events to the broker, keyed by ticket id
// so one ticket's events stay ordered within a partition.
type EventPublisher struct {
	producer Producer
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewEventPublisher builds a publisher.
func NewEventPublisher(producer Producer, logger *zap.Logger, metrics *observability.Metrics) *EventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventPublisher{producer: producer, logger: logger, metrics: metrics}
}

// RegisterHandlers subscribes to every ticket event type.
func (p *EventPublisher) RegisterHandlers(dispatcher events.Dispatcher) {
	for _, eventType := range events.TicketEventTypes {
		dispatcher.Subscribe(eventType, p.Handle)
	}
}

// Handle serializes event and writes it to the broker.
func (p *EventPublisher) Handle(ctx context.Context, event events.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.metrics.RecordEventPublished(string(event.Type), err)
		return err
	}
	err = p.producer.Produce(ctx, []byte(event.Ticket.ID), value)
	p.metrics.RecordEventPublished(string(event.Type), err)
	if err == nil {
		p.logger.Debug("ticket event published",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return err
}
