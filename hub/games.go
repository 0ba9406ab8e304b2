/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"
	"strings"

	"github.com/Seednode/pairbox/games"
	"github.com/sirupsen/logrus"
)

const stopMessage = "The game has ended."

func (h *Hub) setGame(room *Room, title games.Title) {
	if room.game == nil {
		h.metrics.Games.Inc()
	}

	h.epoch++
	room.game = &GameState{Title: title, epoch: h.epoch}
}

func (h *Hub) clearGame(room *Room) {
	if room.game == nil {
		return
	}

	room.game = nil
	h.metrics.Games.Dec()
}

func (h *Hub) markReady(room *Room, clientID string, ready bool) {
	if m, ok := room.member(clientID); ok {
		m.GameReady = ready
	}

	if s, ok := h.registry.Session(clientID); ok {
		s.GameReady = ready
	}
}

// selectGame records a proposal from clientID. It replaces whatever game
// the room had, without waiting on the other member.
func (h *Hub) selectGame(clientID string, title games.Title) {
	room, ok := h.rooms.roomOf(clientID)
	if !ok {
		return
	}

	h.markReady(room, clientID, true)
	h.setGame(room, title)

	h.log.WithFields(logrus.Fields{
		"client": clientID,
		"room":   room.ID,
		"game":   title,
	}).Info("Game proposed")

	h.out.SendToRoom(room.ID, EventUserSelectGame, SelectedGame{Title: title, ClientID: clientID})
}

func (h *Hub) respondToChallenge(clientID, response string) {
	room, ok := h.rooms.roomOf(clientID)
	if !ok {
		return
	}

	switch response {
	case ResponseAccepted:
		h.markReady(room, clientID, true)

		h.out.SendToRoom(room.ID, EventAcceptGameChallenge, AcceptedChallenge{
			Members: append([]Member(nil), room.Members...),
		})

		h.advance(room, CommandNext, clientID)
	case ResponseRejected:
		h.clearGame(room)

		h.log.WithFields(logrus.Fields{
			"client": clientID,
			"room":   room.ID,
		}).Info("Game rejected")

		h.out.SendToRoom(room.ID, EventRejectGameChallenge, Empty{})
	}
}

// relayAndMaybeAdvance forwards payload to the room as chat. When every
// member has opted in to the game, the message text also drives it.
func (h *Hub) relayAndMaybeAdvance(clientID string, payload json.RawMessage, text string) {
	room, ok := h.rooms.roomOf(clientID)
	if !ok {
		return
	}

	h.out.SendToRoom(room.ID, EventSendRandomMessage, payload)
	h.metrics.MessagesRelayed.Inc()

	if room.allReady() {
		h.advance(room, text, clientID)
	}
}

func (h *Hub) system(room *Room, message string) {
	h.out.SendToRoom(room.ID, EventSendGameChallenge, SystemMessage{
		ClientID: SystemID,
		Message:  message,
		Time:     h.clock.Now(),
	})
}

// advance applies a command or guess to the room's running game. Rooms
// without a game, or whose game has no registered implementation, are
// left alone.
func (h *Hub) advance(room *Room, text string, clientID string) {
	state := room.game
	if state == nil {
		return
	}

	game, ok := h.games.Lookup(state.Title)
	if !ok {
		return
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case CommandNext:
		h.scheduleChallenge(room.ID, state.epoch)
	case CommandStop:
		h.clearGame(room)
		for _, m := range room.Members {
			h.markReady(room, m.ClientID, false)
		}

		h.log.WithFields(logrus.Fields{
			"client": clientID,
			"room":   room.ID,
			"game":   state.Title,
		}).Info("Game stopped")

		h.system(room, stopMessage)
		h.out.SendToRoom(room.ID, EventStopGameChallenge, Empty{})
	case CommandHint:
		hint := game.Hint(state.Challenge)
		if state.Challenge.Empty() || hint == "" {
			return
		}

		h.system(room, hint)
	default:
		if !game.CheckAnswer(state.Challenge, text) {
			return
		}

		h.metrics.CorrectGuesses.Inc()

		h.out.SendToRoom(room.ID, EventGuessedGameChallenge, Guessed{ClientID: clientID})
	}
}

// scheduleChallenge fetches the next question after the pacing delay.
// Only the room ID and game epoch are captured; the room is looked up
// again when the timer fires.
func (h *Hub) scheduleChallenge(roomID string, epoch uint64) {
	h.clock.AfterFunc(h.delay, func() {
		h.fireChallenge(roomID, epoch)
	})
}

func (h *Hub) fireChallenge(roomID string, epoch uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms.get(roomID)
	if !ok || room.game == nil || room.game.epoch != epoch {
		return
	}

	game, ok := h.games.Lookup(room.game.Title)
	if !ok {
		return
	}

	challenge, ok := game.FetchChallenge()
	if !ok {
		h.log.WithFields(logrus.Fields{
			"room": roomID,
			"game": room.game.Title,
		}).Warn("No challenge available")

		return
	}

	room.game.Challenge = challenge
	h.metrics.ChallengesServed.Inc()

	h.system(room, challenge.Question)
}
