package challenge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/truthortrap/trap-server-go/internal/game"
)

const (
	// NoMatchText is returned as valid challenge text when the corpus has nothing for a filter.
	NoMatchText = "⚠️ No available challenges for this configuration."
	// StealPunishmentSuffix is appended to a Dare issued after a failed steal.
	StealPunishmentSuffix = " 💥 This is your punishment for failing to steal!"
)

// ErrNoProvider is returned by a Chain with nothing to ask.
var ErrNoProvider = errors.New("no challenge provider configured")

// Request is everything a provider needs to pick or generate a challenge.
type Request struct {
	Type         game.ChallengeType
	Difficulty   game.Difficulty
	Language     game.Language
	StealFailure bool
	Intensified  bool
}

// RequestFor builds the lookup for the challenge currently requested in s.
func RequestFor(s game.State) (Request, bool) {
	if s.Challenge.Phase != game.ChallengeRequested {
		return Request{}, false
	}
	return Request{
		Type:         s.Challenge.Type,
		Difficulty:   s.Difficulty,
		Language:     s.Language,
		StealFailure: s.IsStealFailure,
		Intensified:  s.IsNextChallengeIntensified,
	}, true
}

// Validate rejects requests no provider can serve.
func (r Request) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("invalid challenge type %q", r.Type)
	}
	if !r.Difficulty.Valid() {
		return fmt.Errorf("invalid difficulty %q", r.Difficulty)
	}
	if !r.Language.Valid() {
		return fmt.Errorf("invalid language %q", r.Language)
	}
	return nil
}

// punish applies the steal-failure suffix to Dares.
func (r Request) punish(text string) string {
	if r.StealFailure && r.Type == game.ChallengeDare {
		return text + StealPunishmentSuffix
	}
	return text
}

// Provider looks up challenge text.
type Provider interface {
	Lookup(ctx context.Context, req Request) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

func (f ProviderFunc) Lookup(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Chain asks each provider in turn and returns the first text it gets.
type Chain struct {
	providers []namedProvider
	logger    *zap.Logger
}

type namedProvider struct {
	name string
	Provider
}

// NewChain creates an empty chain.
func NewChain(logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{logger: logger}
}

// Add appends a provider; nil providers are skipped.
func (c *Chain) Add(name string, p Provider) *Chain {
	if p != nil {
		c.providers = append(c.providers, namedProvider{name: name, Provider: p})
	}
	return c
}

// Len returns the number of providers in the chain.
func (c *Chain) Len() int {
	return len(c.providers)
}

// Lookup implements Provider.
func (c *Chain) Lookup(ctx context.Context, req Request) (string, error) {
	if len(c.providers) == 0 {
		return "", ErrNoProvider
	}
	var errs []error
	for _, p := range c.providers {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := p.Lookup(ctx, req)
		if err == nil && strings.TrimSpace(text) != "" {
			return text, nil
		}
		if err == nil {
			err = errors.New("empty challenge text")
		}
		c.logger.Warn("challenge provider failed",
			zap.String("provider", p.name),
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
		errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
	}
	return "", errors.Join(errs...)
}
