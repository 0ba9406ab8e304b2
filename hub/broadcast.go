/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"github.com/sirupsen/logrus"
)

// Broadcaster delivers events to clients resolved through the Registry.
// Delivery is best-effort and at-most-once; one recipient failing never
// stops delivery to the rest.
type Broadcaster struct {
	registry *Registry
	rooms    *roomTable
	log      logrus.FieldLogger
	metrics  *Metrics
}

func (b *Broadcaster) deliver(id string, event string, payload any) {
	conn, ok := b.registry.Resolve(id)
	if !ok {
		return
	}

	if err := conn.Send(event, payload); err != nil {
		b.metrics.DeliveryFailures.WithLabelValues(event).Inc()

		b.log.WithFields(logrus.Fields{
			"client": id,
			"event":  event,
		}).Debugf("Dropped delivery: %v", err)
	}
}

// SendToClient delivers to a single client, if connected.
func (b *Broadcaster) SendToClient(id string, event string, payload any) {
	b.deliver(id, event, payload)
}

// SendToRoom delivers to every current member of the room.
func (b *Broadcaster) SendToRoom(roomID string, event string, payload any) {
	room, ok := b.rooms.get(roomID)
	if !ok {
		return
	}

	for _, m := range room.Members {
		b.deliver(m.ClientID, event, payload)
	}
}

// SendToAll delivers to every registered client.
func (b *Broadcaster) SendToAll(event string, payload any) {
	for id := range b.registry.sessions {
		b.deliver(id, event, payload)
	}
}
