/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

// Inbound events, client to hub. leaveRandomRoom, sendRandomMessage and
// userSelectGame are also sent back out under the same names.
const (
	EventJoinRandomRoom      = "joinRandomRoom"
	EventLeaveRandomRoom     = "leaveRandomRoom"
	EventSendRandomMessage   = "sendRandomMessage"
	EventUserSelectGame      = "userSelectGame"
	EventUserResponseGameReq = "userResponseGameReq"
)

// Outbound events, hub to client.
const (
	EventConnected            = "connected"
	EventGuestCount           = "guestCount"
	EventMessage              = "message"
	EventGuestParticipants    = "guestParticipants"
	EventAcceptGameChallenge  = "acceptGameChallenge"
	EventRejectGameChallenge  = "rejectGameChallenge"
	EventSendGameChallenge    = "sendGameChallenge"
	EventStopGameChallenge    = "stopGameChallenge"
	EventGuessedGameChallenge = "guessedGameChallenge"
)

// Responses to a game proposal.
const (
	ResponseAccepted = "accepted"
	ResponseRejected = "rejected"
)

// Commands typed into the room chat while a game is running.
const (
	CommandNext = "/next"
	CommandHint = "/hint"
	CommandStop = "/stop"
)

// SystemID is the sender of every message the hub itself writes into a
// room's chat.
const SystemID = "SYSTEM"
