/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"time"

	"github.com/Seednode/pairbox/games"
)

type Connected struct {
	ClientID string `json:"clientId"`
}

type GuestCount struct {
	Count int `json:"count"`
}

// Notice is a human-readable line written to the room, such as a join
// or leave announcement.
type Notice struct {
	Text string `json:"text"`
}

// Left tells the room which member departed.
type Left struct {
	ClientID string `json:"clientId"`
}

type Participant struct {
	ClientID string `json:"clientId"`
	PeerID   string `json:"peerId"`
}

type SelectedGame struct {
	Title    games.Title `json:"title"`
	ClientID string      `json:"clientId"`
}

type AcceptedChallenge struct {
	Members []Member `json:"members"`
}

// SystemMessage is chat written by SystemID.
type SystemMessage struct {
	ClientID string    `json:"clientId"`
	Message  string    `json:"message"`
	Time     time.Time `json:"time"`
}

type Guessed struct {
	ClientID string `json:"clientId"`
}

// Empty is sent for events that carry no data.
type Empty struct{}

// ChatMessage is the part of a sendRandomMessage payload the hub reads.
// The payload itself is relayed untouched.
type ChatMessage struct {
	ClientID string `json:"clientId"`
	Message  string `json:"message"`
}
