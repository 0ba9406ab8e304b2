/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestFailedRecipientDoesNotBlockOthers(t *testing.T) {
	h := newHarness(t)
	h.connect("a", "b", "c")
	h.conn("b").fail = ErrQueueFull
	h.resetAll()

	h.hub.mu.Lock()
	h.hub.out.SendToAll(EventMessage, Notice{Text: "hi"})
	h.hub.mu.Unlock()

	for _, id := range []string{"a", "c"} {
		if _, ok := h.conn(id).last(EventMessage); !ok {
			t.Fatalf("%s missed the broadcast", id)
		}
	}

	if got := testutil.ToFloat64(h.metrics.DeliveryFailures.WithLabelValues(EventMessage)); got != 1 {
		t.Fatalf("delivery failures = %v", got)
	}
}

func TestSendToRoomSkipsUnresolvedMembers(t *testing.T) {
	h := newHarness(t)
	room := h.pair("a", "b")

	h.hub.mu.Lock()
	h.hub.registry.Unregister("a")
	h.hub.out.SendToRoom(room.ID, EventMessage, Notice{Text: "x"})
	h.hub.out.SendToRoom("missing", EventMessage, Notice{Text: "y"})
	h.hub.out.SendToClient("nobody", EventMessage, Notice{Text: "z"})
	h.hub.mu.Unlock()

	got, ok := h.conn("b").last(EventMessage)
	if !ok || got.(Notice).Text != "x" {
		t.Fatalf("b got %+v", got)
	}
	if got, _ := h.conn("a").last(EventMessage); got.(Notice).Text == "x" {
		t.Fatal("unregistered member received a room event")
	}
}
