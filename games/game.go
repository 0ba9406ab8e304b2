/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package games holds the mini-games that can be layered on top of a
// paired room.
package games

// Title names a kind of game, as sent by clients in userSelectGame.
type Title string

const (
	TitleTrivia Title = "trivia"
)

// Challenge is one question/answer/hint triple. The zero value means
// no challenge has been loaded yet.
type Challenge struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
	Hint     string `json:"hint" yaml:"hint"`
}

// Empty reports whether c is still waiting on a fetch.
func (c Challenge) Empty() bool {
	return c.Question == "" && c.Answer == ""
}

// Game is what the hub needs from a game kind to run it inside a room.
type Game interface {
	Title() Title

	// FetchChallenge returns the next challenge, or false when the game
	// has nothing to serve.
	FetchChallenge() (Challenge, bool)

	CheckAnswer(c Challenge, guess string) bool

	Hint(c Challenge) string
}

// Catalog maps titles to the games that serve them.
type Catalog map[Title]Game

// NewCatalog indexes games by their titles.
func NewCatalog(gs ...Game) Catalog {
	c := make(Catalog, len(gs))
	for _, g := range gs {
		c[g.Title()] = g
	}

	return c
}

// Lookup returns the game registered for title, if any.
func (c Catalog) Lookup(title Title) (Game, bool) {
	g, ok := c[title]

	return g, ok
}
