package challenge

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/truthortrap/trap-server-go/internal/game"
)

func fixed(text string, err error) ProviderFunc {
	return func(context.Context, Request) (string, error) { return text, err }
}

func TestChainFallsThrough(t *testing.T) {
	boom := errors.New("boom")
	chain := NewChain(zaptest.NewLogger(t)).
		Add("ai", fixed("", boom)).
		Add("blank", fixed("  ", nil)).
		Add("nil", nil).
		Add("static", fixed("static text", nil))
	assert.Equal(t, 3, chain.Len())

	text, err := chain.Lookup(context.Background(), truthEN())
	require.NoError(t, err)
	assert.Equal(t, "static text", text)
}

func TestChainJoinsErrors(t *testing.T) {
	first, second := errors.New("first"), errors.New("second")
	chain := NewChain(nil).Add("a", fixed("", first)).Add("b", fixed("", second))

	_, err := chain.Lookup(context.Background(), truthEN())
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)

	_, err = NewChain(nil).Lookup(context.Background(), truthEN())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestChainStopsOnCancel(t *testing.T) {
	calls := 0
	chain := NewChain(nil).Add("a", ProviderFunc(func(context.Context, Request) (string, error) {
		calls++
		return "x", nil
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := chain.Lookup(ctx, truthEN())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestRequestFor(t *testing.T) {
	s := game.Initial()
	_, ok := RequestFor(s)
	assert.False(t, ok)

	s.Difficulty = game.DifficultyExtreme
	s.Language = game.LanguageMY
	s.IsStealFailure = true
	s.IsNextChallengeIntensified = true
	s.Challenge.Phase = game.ChallengeRequested
	s.Challenge.Type = game.ChallengeDare

	req, ok := RequestFor(s)
	require.True(t, ok)
	assert.Equal(t, Request{
		Type:         game.ChallengeDare,
		Difficulty:   game.DifficultyExtreme,
		Language:     game.LanguageMY,
		StealFailure: true,
		Intensified:  true,
	}, req)
}
