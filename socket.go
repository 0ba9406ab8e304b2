/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Seednode/pairbox/hub"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const maxFrameSize = 16 * 1024

// envelope is one websocket frame in either direction.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Client is one websocket connection. It implements hub.Conn.
type Client struct {
	id   string
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, buffer int) *Client {
	return &Client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, buffer),
	}
}

// Send queues an event without blocking. A full queue drops the event
// for this client only.
func (c *Client) Send(event string, payload any) error {
	frame, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return hub.ErrClosed
	}

	select {
	case c.send <- frame:
		return nil
	default:
		return hub.ErrQueueFull
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// socketSet tracks open connections so shutdown can close them.
type socketSet struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
}

func newSocketSet() *socketSet {
	return &socketSet{clients: make(map[*Client]struct{})}
}

func (s *socketSet) add(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clients[c] = struct{}{}
}

func (s *socketSet) remove(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.clients, c)
}

func (s *socketSet) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for c := range s.clients {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveSocket(cfg *Config, h *hub.Hub, sockets *socketSet, log logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithFields(logrus.Fields{
				"remote": realIP(r),
			}).Warnf("Failed to upgrade connection: %v", err)
			return
		}

		c := newClient(conn, cfg.sendBuffer)
		sockets.add(c)

		h.Connect(c.id, c)

		go c.writePump(log)
		c.readPump(h, log)

		sockets.remove(c)
	})
}

func (c *Client) readPump(h *hub.Hub, log logrus.FieldLogger) {
	defer func() {
		h.Disconnect(c.id)
		c.close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithFields(logrus.Fields{
					"client": c.id,
				}).Warnf("Failed to read message: %v", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			log.WithFields(logrus.Fields{
				"client": c.id,
			}).Debugf("Ignored undecodable frame: %v", err)
			continue
		}

		dispatch(h, c.id, env, log)
	}
}

func (c *Client) writePump(log logrus.FieldLogger) {
	defer c.conn.Close()

	for frame := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))

		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			log.WithFields(logrus.Fields{
				"client": c.id,
			}).Debugf("Failed to write message: %v", err)
			return
		}
	}
}

// dispatch routes one inbound event to the hub. Malformed payloads are
// dropped like any other out-of-context request.
func dispatch(h *hub.Hub, id string, env envelope, log logrus.FieldLogger) {
	switch env.Event {
	case hub.EventJoinRandomRoom:
		if peer, ok := stringData(env.Data); ok {
			h.JoinRandomRoom(id, peer)
			return
		}
	case hub.EventLeaveRandomRoom:
		if peer, ok := stringData(env.Data); ok {
			h.LeaveRandomRoom(id, peer)
			return
		}
	case hub.EventSendRandomMessage:
		h.SendRandomMessage(id, env.Data)
		return
	case hub.EventUserSelectGame:
		if title, ok := stringData(env.Data); ok {
			h.SelectGame(id, title)
			return
		}
	case hub.EventUserResponseGameReq:
		if response, ok := stringData(env.Data); ok {
			h.RespondToChallenge(id, response)
			return
		}
	}

	log.WithFields(logrus.Fields{
		"client": id,
		"event":  env.Event,
	}).Debug("Ignored event")
}

// stringData decodes a string payload. A missing payload is the empty
// string.
func stringData(data json.RawMessage) (string, bool) {
	if len(data) == 0 {
		return "", true
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}

	return s, true
}
