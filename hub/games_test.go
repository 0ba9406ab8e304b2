/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package hub

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// startTrivia pairs A and B, has A propose trivia and B accept, then
// lets the pacing delay elapse so the first question is loaded.
func startTrivia(t *testing.T, h *harness) RoomInfo {
	t.Helper()

	h.pair("A", "B")
	h.hub.SelectGame("A", "trivia")
	h.hub.RespondToChallenge("B", ResponseAccepted)
	h.clock.Advance(DefaultChallengeDelay)

	room, _ := h.hub.RoomOf("A")
	if room.Challenge.Empty() {
		t.Fatal("no challenge loaded")
	}
	h.resetAll()

	return room
}

func TestSelectAcceptServesQuestionAfterDelay(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")

	h.hub.SelectGame("A", "trivia")

	room, _ := h.hub.RoomOf("A")
	if !room.HasGame || room.Game != "trivia" {
		t.Fatalf("game state = %+v", room)
	}
	if !room.Members[0].GameReady || room.Members[1].GameReady {
		t.Fatalf("readiness after proposal = %+v", room.Members)
	}

	sel, ok := h.conn("B").last(EventUserSelectGame)
	if !ok || sel.(SelectedGame) != (SelectedGame{Title: "trivia", ClientID: "A"}) {
		t.Fatalf("B saw proposal %+v", sel)
	}

	h.hub.RespondToChallenge("B", ResponseAccepted)

	acc, ok := h.conn("A").last(EventAcceptGameChallenge)
	if !ok {
		t.Fatal("no accept event")
	}
	for _, m := range acc.(AcceptedChallenge).Members {
		if !m.GameReady {
			t.Fatalf("member %s not ready in accept event", m.ClientID)
		}
	}

	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("question sent before the pacing delay")
	}
	if h.clock.Pending() != 1 {
		t.Fatalf("pending timers = %d", h.clock.Pending())
	}

	h.clock.Advance(DefaultChallengeDelay - 1)
	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("question sent early")
	}

	h.clock.Advance(1)

	for _, id := range []string{"A", "B"} {
		got, ok := h.conn(id).last(EventSendGameChallenge)
		if !ok {
			t.Fatalf("%s got no question", id)
		}
		msg := got.(SystemMessage)
		if msg.ClientID != SystemID || msg.Message != paris.Question {
			t.Fatalf("%s got %+v", id, msg)
		}
		if !msg.Time.Equal(epoch.Add(DefaultChallengeDelay)) {
			t.Fatalf("timestamp = %v", msg.Time)
		}
	}

	if got := testutil.ToFloat64(h.metrics.ChallengesServed); got != 1 {
		t.Fatalf("challenges served = %v", got)
	}
}

func TestRejectDropsGame(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")

	h.hub.SelectGame("A", "trivia")
	h.hub.RespondToChallenge("B", ResponseRejected)

	room, _ := h.hub.RoomOf("A")
	if room.HasGame {
		t.Fatal("game state survived rejection")
	}

	got, ok := h.conn("A").last(EventRejectGameChallenge)
	if !ok || got.(Empty) != (Empty{}) {
		t.Fatalf("reject event = %+v", got)
	}

	h.clock.Advance(DefaultChallengeDelay * 10)

	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("question served after rejection")
	}
}

func TestStopCommandEndsGame(t *testing.T) {
	h := newHarness(t, paris)
	startTrivia(t, h)

	h.say("A", "/STOP ")

	room, _ := h.hub.RoomOf("A")
	if room.HasGame {
		t.Fatal("game state survived stop")
	}
	for _, m := range room.Members {
		if m.GameReady {
			t.Fatalf("%s still ready", m.ClientID)
		}
	}

	for _, id := range []string{"A", "B"} {
		if _, ok := h.conn(id).last(EventStopGameChallenge); !ok {
			t.Fatalf("%s got no stop event", id)
		}
		sys, _ := h.conn(id).last(EventSendGameChallenge)
		if sys.(SystemMessage).Message != stopMessage {
			t.Fatalf("closing message = %q", sys.(SystemMessage).Message)
		}
	}

	if got := testutil.ToFloat64(h.metrics.Games); got != 0 {
		t.Fatalf("games gauge = %v", got)
	}

	h.resetAll()
	h.say("B", "/next")
	h.clock.Advance(DefaultChallengeDelay)
	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("game advanced after stop")
	}
}

func TestGuessesMatchIgnoringCase(t *testing.T) {
	h := newHarness(t, paris)
	startTrivia(t, h)

	for _, guess := range []string{"paris", "PARIS", "PaRiS"} {
		h.say("B", guess)
	}
	h.say("B", "pariss")

	guesses := h.conn("A").events(EventGuessedGameChallenge)
	if len(guesses) != 3 {
		t.Fatalf("got %d guessed events, want 3", len(guesses))
	}
	for _, g := range guesses {
		if g.(Guessed).ClientID != "B" {
			t.Fatalf("guesser = %q", g.(Guessed).ClientID)
		}
	}

	room, _ := h.hub.RoomOf("A")
	if room.Challenge != paris {
		t.Fatal("correct guess changed the challenge")
	}
	if h.clock.Pending() != 0 {
		t.Fatal("correct guess scheduled the next question")
	}
	if got := testutil.ToFloat64(h.metrics.CorrectGuesses); got != 3 {
		t.Fatalf("correct guesses = %v", got)
	}
}

func TestHintBeforeQuestionIsSuppressed(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")
	h.hub.SelectGame("A", "trivia")
	h.hub.RespondToChallenge("B", ResponseAccepted)

	h.say("A", "/hint")
	if n := len(h.conn("B").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("hint sent before a question was loaded")
	}

	h.clock.Advance(DefaultChallengeDelay)
	h.resetAll()

	h.say("A", "/hint")

	got, ok := h.conn("B").last(EventSendGameChallenge)
	if !ok || got.(SystemMessage).Message != paris.Hint {
		t.Fatalf("hint = %+v", got)
	}

	room, _ := h.hub.RoomOf("A")
	if room.Challenge != paris {
		t.Fatal("hint changed state")
	}
}

func TestDelayedFetchAfterTeardownIsNoop(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")
	h.hub.SelectGame("A", "trivia")
	h.hub.RespondToChallenge("B", ResponseAccepted)

	h.hub.LeaveRandomRoom("B", "peer-B")
	h.hub.JoinRandomRoom("A", "peer-A")

	h.clock.Advance(DefaultChallengeDelay)

	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("question delivered to a torn-down room")
	}
	if got := testutil.ToFloat64(h.metrics.ChallengesServed); got != 0 {
		t.Fatalf("challenges served = %v", got)
	}
}

func TestDelayedFetchAfterReproposalIsNoop(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")
	h.hub.SelectGame("A", "trivia")
	h.hub.RespondToChallenge("B", ResponseAccepted)

	h.hub.SelectGame("B", "trivia")
	h.clock.Advance(DefaultChallengeDelay)

	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("stale fetch landed in the new proposal")
	}

	h.hub.RespondToChallenge("A", ResponseAccepted)
	h.clock.Advance(DefaultChallengeDelay)

	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 1 {
		t.Fatalf("got %d questions, want 1", n)
	}
}

func TestChatRelaysVerbatimWithoutDrivingGame(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")

	payload := chat("A", "/next")
	h.hub.SendRandomMessage("A", payload)

	for _, id := range []string{"A", "B"} {
		got, ok := h.conn(id).last(EventSendRandomMessage)
		if !ok || string(got.(json.RawMessage)) != string(payload) {
			t.Fatalf("%s got %v", id, got)
		}
	}

	h.hub.SelectGame("A", "trivia")
	h.say("A", "/next")

	if h.clock.Pending() != 0 {
		t.Fatal("command reached the game before every member was ready")
	}
	if got := testutil.ToFloat64(h.metrics.MessagesRelayed); got != 2 {
		t.Fatalf("messages relayed = %v", got)
	}
}

func TestChatOutsideRoomIsDropped(t *testing.T) {
	h := newHarness(t)
	h.connect("A")

	h.say("A", "hello")
	h.hub.SendRandomMessage("A", json.RawMessage(`"not an object"`))

	if n := len(h.conn("A").events(EventSendRandomMessage)); n != 0 {
		t.Fatal("relayed chat with no room")
	}
}

func TestUnknownGameIsInert(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")

	h.hub.SelectGame("A", "chess")
	h.hub.RespondToChallenge("B", ResponseAccepted)

	room, _ := h.hub.RoomOf("A")
	if !room.HasGame || room.Game != "chess" {
		t.Fatalf("game state = %+v", room)
	}
	if h.clock.Pending() != 0 {
		t.Fatal("unknown game scheduled a question")
	}

	h.say("A", "/stop")
	if room, _ := h.hub.RoomOf("A"); !room.HasGame {
		t.Fatal("unknown game handled a command")
	}
}

func TestEmptyBankDegrades(t *testing.T) {
	h := newHarness(t)
	h.pair("A", "B")
	h.hub.SelectGame("A", "trivia")
	h.hub.RespondToChallenge("B", ResponseAccepted)

	h.clock.Advance(DefaultChallengeDelay)

	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 0 {
		t.Fatal("question served from an empty bank")
	}

	h.say("A", "/hint")
	h.say("A", "anything")
	if n := len(h.conn("A").events(EventGuessedGameChallenge)); n != 0 {
		t.Fatal("guess matched with no challenge")
	}
}

func TestAcceptWithoutProposal(t *testing.T) {
	h := newHarness(t, paris)
	h.pair("A", "B")

	h.hub.RespondToChallenge("B", ResponseAccepted)

	if _, ok := h.conn("A").last(EventAcceptGameChallenge); !ok {
		t.Fatal("no accept event")
	}
	if h.clock.Pending() != 0 {
		t.Fatal("accept without a game scheduled a question")
	}

	h.hub.RespondToChallenge("B", "maybe")
	h.hub.RespondToChallenge("ghost", ResponseRejected)
}

func TestNextServesAnotherQuestion(t *testing.T) {
	h := newHarness(t, paris)
	startTrivia(t, h)

	h.say("B", "/next")
	h.clock.Advance(DefaultChallengeDelay)

	if n := len(h.conn("A").events(EventSendGameChallenge)); n != 1 {
		t.Fatalf("got %d questions, want 1", n)
	}
}
