package metrics

import (
	"hrflow_backend/internal/events"
)

// Subscribe вешает счетчики на события домена
func Subscribe(bus events.Bus) error {
	if err := bus.Subscribe(events.ApplicationStatusChangedTopic, func(e events.ApplicationStatusChanged) {
		ApplicationTransitions.WithLabelValues(string(e.From), string(e.To)).Inc()
	}); err != nil {
		return err
	}
	if err := bus.Subscribe(events.PositionStatusChangedTopic, func(e events.PositionStatusChanged) {
		PositionTransitions.WithLabelValues(string(e.From), string(e.To)).Inc()
	}); err != nil {
		return err
	}
	return bus.Subscribe(events.ApplicationSubmittedTopic, func(e events.ApplicationSubmitted) {
		ApplicationsSubmitted.Inc()
	})
}
