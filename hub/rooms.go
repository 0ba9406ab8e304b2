/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"fmt"
	"slices"

	"github.com/Seednode/pairbox/games"
	"github.com/sirupsen/logrus"
)

// RoomCapacity is the most members a room can hold.
const RoomCapacity = 2

// Member is a room's view of one participant. GameReady shadows the
// session flag so it survives the session briefly going missing.
type Member struct {
	ClientID  string `json:"clientId"`
	PeerID    string `json:"peerId"`
	GameReady bool   `json:"gameReady"`
}

// GameState is the optional game overlay of a room.
type GameState struct {
	Title     games.Title
	Challenge games.Challenge

	// epoch distinguishes this proposal from any earlier one in the
	// same room, so a delayed fetch never lands in a newer game.
	epoch uint64
}

type Room struct {
	ID      string
	Members []Member

	game *GameState
}

func (r *Room) member(clientID string) (*Member, bool) {
	for i := range r.Members {
		if r.Members[i].ClientID == clientID {
			return &r.Members[i], true
		}
	}

	return nil, false
}

func (r *Room) allReady() bool {
	for _, m := range r.Members {
		if !m.GameReady {
			return false
		}
	}

	return len(r.Members) > 0
}

func (r *Room) participants() []Participant {
	out := make([]Participant, 0, len(r.Members))
	for _, m := range r.Members {
		out = append(out, Participant{ClientID: m.ClientID, PeerID: m.PeerID})
	}

	return out
}

// roomTable owns every room plus the client-to-room index. All
// membership changes go through it so the index never drifts.
type roomTable struct {
	rooms   map[string]*Room
	byGuest map[string]string

	// waiting holds the IDs of single-member rooms, oldest first.
	waiting []string

	newID func() string
}

func newRoomTable(newID func() string) *roomTable {
	if newID == nil {
		newID = randomRoomID
	}

	return &roomTable{
		rooms:   make(map[string]*Room),
		byGuest: make(map[string]string),
		newID:   newID,
	}
}

func (t *roomTable) get(id string) (*Room, bool) {
	r, ok := t.rooms[id]

	return r, ok
}

func (t *roomTable) roomOf(clientID string) (*Room, bool) {
	id, ok := t.byGuest[clientID]
	if !ok {
		return nil, false
	}

	return t.get(id)
}

// create opens an empty room under a fresh ID, regenerating on the
// rare collision with a live room.
func (t *roomTable) create() *Room {
	id := t.newID()
	for {
		if _, exists := t.rooms[id]; !exists {
			break
		}
		id = t.newID()
	}

	r := &Room{ID: id}
	t.rooms[id] = r

	return r
}

func (t *roomTable) available() (*Room, bool) {
	for _, id := range t.waiting {
		if r, ok := t.rooms[id]; ok && len(r.Members) == 1 {
			return r, true
		}
	}

	return nil, false
}

func (t *roomTable) add(r *Room, m Member) error {
	if len(r.Members) >= RoomCapacity {
		return fmt.Errorf("room %s is full", r.ID)
	}
	if other, ok := t.byGuest[m.ClientID]; ok {
		return fmt.Errorf("client %s already in room %s", m.ClientID, other)
	}

	r.Members = append(r.Members, m)
	t.byGuest[m.ClientID] = r.ID
	t.refreshWaiting(r)

	return nil
}

func (t *roomTable) remove(r *Room, clientID string) {
	r.Members = slices.DeleteFunc(r.Members, func(m Member) bool {
		return m.ClientID == clientID
	})
	delete(t.byGuest, clientID)
	t.refreshWaiting(r)
}

// drop deletes the room and releases every member still indexed to it.
func (t *roomTable) drop(r *Room) {
	for _, m := range r.Members {
		if t.byGuest[m.ClientID] == r.ID {
			delete(t.byGuest, m.ClientID)
		}
	}

	delete(t.rooms, r.ID)
	t.waiting = slices.DeleteFunc(t.waiting, func(id string) bool { return id == r.ID })
}

func (t *roomTable) refreshWaiting(r *Room) {
	i := slices.Index(t.waiting, r.ID)

	switch {
	case len(r.Members) == 1 && i < 0:
		t.waiting = append(t.waiting, r.ID)
	case len(r.Members) != 1 && i >= 0:
		t.waiting = slices.Delete(t.waiting, i, i+1)
	}
}

// requestRandomPairing puts clientID into the oldest room waiting for a
// partner, or into a new room when none is waiting. A client already in
// a room is left where it is.
func (h *Hub) requestRandomPairing(clientID, peerID string) {
	if _, ok := h.registry.Session(clientID); !ok {
		return
	}

	if _, ok := h.rooms.roomOf(clientID); ok {
		h.log.WithFields(logrus.Fields{
			"client": clientID,
		}).Debug("Ignored pairing request from paired client")

		return
	}

	target, ok := h.rooms.available()
	if !ok {
		target = h.rooms.create()
		h.metrics.Rooms.Inc()
	}

	target, ok = h.place(target, Member{ClientID: clientID, PeerID: peerID})
	if !ok {
		return
	}

	if s, ok := h.registry.Session(clientID); ok {
		s.PeerID = peerID
		s.GameReady = false
	}

	if len(target.Members) == RoomCapacity {
		h.metrics.Pairings.Inc()
	}

	h.log.WithFields(logrus.Fields{
		"client":  clientID,
		"room":    target.ID,
		"members": len(target.Members),
	}).Info("Client joined room")

	h.out.SendToRoom(target.ID, EventMessage, Notice{Text: clientID + " joined the room"})
	h.out.SendToRoom(target.ID, EventGuestParticipants, target.participants())
}

// place adds m to target, falling back to a fresh room when target is
// already full.
func (h *Hub) place(target *Room, m Member) (*Room, bool) {
	err := h.rooms.add(target, m)
	if err == nil {
		return target, true
	}

	h.log.WithFields(logrus.Fields{
		"client": m.ClientID,
		"room":   target.ID,
	}).Warnf("Opening new room: %v", err)

	fresh := h.rooms.create()
	h.metrics.Rooms.Inc()

	if err := h.rooms.add(fresh, m); err != nil {
		h.rooms.drop(fresh)
		h.metrics.Rooms.Dec()

		return nil, false
	}

	return fresh, true
}

// leavePairing removes clientID from its room, announcing the departure
// to everyone including the leaver, and tears the room down once it is
// no longer a pair.
func (h *Hub) leavePairing(clientID string) {
	room, ok := h.rooms.roomOf(clientID)
	if !ok {
		return
	}

	h.out.SendToRoom(room.ID, EventMessage, Notice{Text: clientID + " left the room"})
	h.out.SendToRoom(room.ID, EventLeaveRandomRoom, Left{ClientID: clientID})

	h.rooms.remove(room, clientID)

	h.log.WithFields(logrus.Fields{
		"client": clientID,
		"room":   room.ID,
	}).Info("Client left room")

	if len(room.Members) < RoomCapacity {
		h.teardown(room)
	}
}

func (h *Hub) teardown(room *Room) {
	h.clearGame(room)

	for _, m := range room.Members {
		if s, ok := h.registry.Session(m.ClientID); ok {
			s.GameReady = false
		}
	}

	h.rooms.drop(room)
	h.metrics.Rooms.Dec()

	h.log.WithFields(logrus.Fields{
		"room": room.ID,
	}).Info("Closed room")
}

// cascadeDisconnect releases a disconnected client from every room it
// belongs to.
func (h *Hub) cascadeDisconnect(clientID string) {
	for {
		if _, ok := h.rooms.roomOf(clientID); !ok {
			return
		}
		h.leavePairing(clientID)
	}
}
