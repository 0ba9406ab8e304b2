/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import "errors"

var (
	ErrQueueFull = errors.New("outbound queue full")
	ErrClosed    = errors.New("connection closed")
)

// Conn is the transport handle for one connected client. Send must not
// block; a slow or closed connection reports an error instead.
type Conn interface {
	Send(event string, payload any) error
}

// Session is the hub's record of a connected client.
type Session struct {
	ID        string
	PeerID    string
	GameReady bool

	conn Conn
}

// Registry maps client identifiers to live sessions. It is not
// synchronized; the Hub serializes access.
type Registry struct {
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register stores s, replacing any stale session with the same ID.
func (r *Registry) Register(s *Session) {
	r.sessions[s.ID] = s
}

func (r *Registry) Unregister(id string) {
	delete(r.sessions, id)
}

func (r *Registry) Size() int {
	return len(r.sessions)
}

func (r *Registry) Session(id string) (*Session, bool) {
	s, ok := r.sessions[id]

	return s, ok
}

// Resolve returns the connection for id. A missing client is not an
// error; callers skip it.
func (r *Registry) Resolve(id string) (Conn, bool) {
	s, ok := r.sessions[id]
	if !ok || s.conn == nil {
		return nil, false
	}

	return s.conn, true
}
