/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

//go:embed trivia.json
var bundledTrivia []byte

var ErrUnknownFormat = errors.New("unknown question bank format")

// Provider serves trivia items drawn uniformly at random from a fixed
// bank. An empty Provider is valid and never returns an item.
type Provider struct {
	mu    sync.Mutex
	items []Challenge
	rng   *rand.Rand
}

// NewProvider wraps items. A nil rng uses a randomly seeded source.
func NewProvider(items []Challenge, rng *rand.Rand) *Provider {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return &Provider{
		items: items,
		rng:   rng,
	}
}

// LoadProvider reads the question bank at path, or the bundled bank
// when path is empty. A failed load is logged and yields an empty
// Provider so the hub keeps running without questions.
func LoadProvider(path string, log logrus.FieldLogger) *Provider {
	var (
		items []Challenge
		err   error
	)

	if path == "" {
		items, err = ParseBank(bundledTrivia, ".json")
		path = "bundled"
	} else {
		items, err = LoadBank(path)
	}

	if err != nil {
		log.WithFields(logrus.Fields{
			"source": path,
		}).Errorf("Error loading trivia data: %v", err)

		return NewProvider(nil, nil)
	}

	log.WithFields(logrus.Fields{
		"source": path,
		"items":  len(items),
	}).Info("Loaded trivia bank")

	return NewProvider(items, nil)
}

// LoadBank reads a question bank file, choosing the decoder by extension.
func LoadBank(path string) ([]Challenge, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return ParseBank(data, filepath.Ext(path))
}

// ParseBank decodes a question bank. JSON banks may carry comments and
// trailing commas. Entries missing a question or answer are dropped.
func ParseBank(data []byte, ext string) ([]Challenge, error) {
	var raw []Challenge

	switch strings.ToLower(ext) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}

	items := raw[:0]
	for _, c := range raw {
		if strings.TrimSpace(c.Question) == "" || strings.TrimSpace(c.Answer) == "" {
			continue
		}
		items = append(items, c)
	}

	return items, nil
}

// Len returns the number of items in the bank.
func (p *Provider) Len() int {
	return len(p.items)
}

// GetRandomTrivia returns one item chosen uniformly at random.
func (p *Provider) GetRandomTrivia() (Challenge, bool) {
	if len(p.items) == 0 {
		return Challenge{}, false
	}

	p.mu.Lock()
	i := p.rng.IntN(len(p.items))
	p.mu.Unlock()

	return p.items[i], true
}

// Trivia is the question-and-answer game.
type Trivia struct {
	provider *Provider
}

func NewTrivia(p *Provider) *Trivia {
	return &Trivia{provider: p}
}

func (t *Trivia) Title() Title {
	return TitleTrivia
}

func (t *Trivia) FetchChallenge() (Challenge, bool) {
	return t.provider.GetRandomTrivia()
}

// CheckAnswer matches the whole guess against the answer, ignoring case.
func (t *Trivia) CheckAnswer(c Challenge, guess string) bool {
	if c.Answer == "" {
		return false
	}

	return strings.EqualFold(guess, c.Answer)
}

func (t *Trivia) Hint(c Challenge) string {
	return c.Hint
}
