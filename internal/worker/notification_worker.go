package worker

import (
	"go.uber.org/zap"

	"github.com/service-bay/ticket-service/internal/events"
)

// Subscriber attaches its handlers to the ticket event dispatcher.
type Subscriber interface {
	RegisterHandlers(dispatcher events.Dispatcher)
}

// StartEventSubscribers registers every non-nil subscriber. Handlers run
// after the triggering write has been persisted.
func StartEventSubscribers(dispatcher events.Dispatcher, logger *zap.Logger, subscribers ...Subscriber) int {
	started := 0
	for _, sub := range subscribers {
		if sub == nil {
			continue
		}
		sub.RegisterHandlers(dispatcher)
		started++
	}
	if logger != nil {
		logger.Info("event subscribers registered", zap.Int("count", started))
	}
	return started
}
