package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/domain"
	"github.com/service-bay/ticket-service/internal/events"
)

type recordingProducer struct {
	keys   []string
	values [][]byte
	err    error
}

func (r *recordingProducer) Produce(_ context.Context, key, value []byte) error {
	r.keys = append(r.keys, string(key))
	r.values = append(r.values, value)
	return r.err
}

func TestEventPublisher_ForwardsTicketEvents(t *testing.T) {
	producer := &recordingProducer{}
	dispatcher := events.NewInMemoryDispatcher(zap.NewNop())
	NewEventPublisher(producer, zap.NewNop(), nil).RegisterHandlers(dispatcher)

	dispatcher.Publish(context.Background(), events.Event{
		ID:      "evt-1",
		Type:    events.EventTicketStatusChanged,
		Ticket:  events.TicketRef{ID: "ticket-1", Title: "Brakes squeal"},
		Payload: events.TicketStatusChangedPayload{OldStatus: domain.TicketStatusOpen, NewStatus: domain.TicketStatusScheduled},
	})

	require.Len(t, producer.values, 1)
	assert.Equal(t, "ticket-1", producer.keys[0])

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(producer.values[0], &decoded))
	assert.Equal(t, "ticket_status_changed", decoded["type"])
	assert.Equal(t, "Scheduled", decoded["payload"].(map[string]any)["new_status"])
}

func TestEventPublisher_ReturnsProducerError(t *testing.T) {
	producer := &recordingProducer{err: errors.New("broker down")}
	publisher := NewEventPublisher(producer, zap.NewNop(), nil)

	err := publisher.Handle(context.Background(), events.Event{Type: events.EventTicketCreated})
	assert.EqualError(t, err, "broker down")
}
