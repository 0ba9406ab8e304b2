/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package hub pairs connected clients into two-person rooms, relays
// their chat and runs optional games inside each room.
//
// Every exported operation takes the hub's lock for its full duration,
// so inbound events are applied one at a time. The only deferred work
// is the pause before each game question, which re-checks that its room
// and game still exist when it fires.
package hub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Seednode/pairbox/clock"
	"github.com/Seednode/pairbox/games"
	"github.com/sirupsen/logrus"
)

// DefaultChallengeDelay is the pause before each question is revealed.
const DefaultChallengeDelay = 3 * time.Second

type Config struct {
	Clock          clock.Clock
	Games          games.Catalog
	ChallengeDelay time.Duration
	Log            logrus.FieldLogger
	Metrics        *Metrics

	// NewRoomID overrides room identifier generation.
	NewRoomID func() string
}

type Hub struct {
	mu sync.Mutex

	clock   clock.Clock
	games   games.Catalog
	delay   time.Duration
	log     logrus.FieldLogger
	metrics *Metrics

	registry *Registry
	rooms    *roomTable
	out      *Broadcaster

	epoch uint64
}

func New(cfg Config) *Hub {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Games == nil {
		cfg.Games = games.NewCatalog()
	}
	if cfg.ChallengeDelay <= 0 {
		cfg.ChallengeDelay = DefaultChallengeDelay
	}
	if cfg.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		cfg.Log = l
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics(nil)
	}

	h := &Hub{
		clock:    cfg.Clock,
		games:    cfg.Games,
		delay:    cfg.ChallengeDelay,
		log:      cfg.Log,
		metrics:  cfg.Metrics,
		registry: NewRegistry(),
		rooms:    newRoomTable(cfg.NewRoomID),
	}

	h.out = &Broadcaster{
		registry: h.registry,
		rooms:    h.rooms,
		log:      h.log,
		metrics:  h.metrics,
	}

	return h
}

func (h *Hub) broadcastGuestCount() {
	count := h.registry.Size()
	h.metrics.Guests.Set(float64(count))
	h.out.SendToAll(EventGuestCount, GuestCount{Count: count})
}

// Connect registers a newly connected client under id.
func (h *Hub) Connect(id string, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.registry.Register(&Session{ID: id, conn: conn})

	h.log.WithFields(logrus.Fields{
		"client": id,
	}).Info("Client connected")

	h.out.SendToClient(id, EventConnected, Connected{ClientID: id})
	h.broadcastGuestCount()
}

// Disconnect forgets id and releases it from any room.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.registry.Unregister(id)
	h.cascadeDisconnect(id)

	h.log.WithFields(logrus.Fields{
		"client": id,
	}).Info("Client disconnected")

	h.broadcastGuestCount()
}

func (h *Hub) JoinRandomRoom(clientID, peerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requestRandomPairing(clientID, peerID)
}

// LeaveRandomRoom takes clientID out of its room. The peer ID is
// accepted for symmetry with JoinRandomRoom and is not consulted.
func (h *Hub) LeaveRandomRoom(clientID, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leavePairing(clientID)
}

// SendRandomMessage relays a chat payload to the sender's room.
func (h *Hub) SendRandomMessage(clientID string, payload json.RawMessage) {
	var msg ChatMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		h.log.WithFields(logrus.Fields{
			"client": clientID,
		}).Debugf("Undecodable chat payload: %v", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.relayAndMaybeAdvance(clientID, payload, msg.Message)
}

func (h *Hub) SelectGame(clientID string, title string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.selectGame(clientID, games.Title(title))
}

func (h *Hub) RespondToChallenge(clientID, response string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.respondToChallenge(clientID, response)
}

// RoomInfo is a point-in-time copy of a room.
type RoomInfo struct {
	ID        string
	Members   []Member
	Game      games.Title
	Challenge games.Challenge
	HasGame   bool
}

func snapshot(r *Room) RoomInfo {
	info := RoomInfo{
		ID:      r.ID,
		Members: append([]Member(nil), r.Members...),
	}

	if r.game != nil {
		info.HasGame = true
		info.Game = r.game.Title
		info.Challenge = r.game.Challenge
	}

	return info
}

// RoomOf returns the room clientID is in.
func (h *Hub) RoomOf(clientID string) (RoomInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms.roomOf(clientID)
	if !ok {
		return RoomInfo{}, false
	}

	return snapshot(r), true
}

// Room returns the room with the given ID.
func (h *Hub) Room(id string) (RoomInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	r, ok := h.rooms.get(id)
	if !ok {
		return RoomInfo{}, false
	}

	return snapshot(r), true
}

type Stats struct {
	Guests         int `json:"guests"`
	Rooms          int `json:"rooms"`
	AvailableRooms int `json:"availableRooms"`
	Games          int `json:"games"`
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := Stats{
		Guests:         h.registry.Size(),
		Rooms:          len(h.rooms.rooms),
		AvailableRooms: len(h.rooms.waiting),
	}

	for _, r := range h.rooms.rooms {
		if r.game != nil {
			s.Games++
		}
	}

	return s
}
