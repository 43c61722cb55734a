package challenge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/truthortrap/trap-server-go/internal/game"
)

type fakeGenerator struct {
	body string
	err  error
	got  []GenerateRequest
	wait bool
}

func (f *fakeGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	f.got = append(f.got, req)
	if f.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.body, f.err
}

func TestGeminiProviderLookup(t *testing.T) {
	gen := &fakeGenerator{body: ` {"challenge":"Tell us your worst date."} `}
	p := NewGeminiProvider(gen, SettingPrivate, 0, zaptest.NewLogger(t))

	text, err := p.Lookup(context.Background(), truthEN())
	require.NoError(t, err)
	assert.Equal(t, "Tell us your worst date.", text)

	require.Len(t, gen.got, 1)
	req := gen.got[0]
	assert.Equal(t, "You are 'Truth or Trap', a party game AI. Your response must be in English.", req.SystemInstruction)
	assert.True(t, strings.HasPrefix(req.Prompt, "Generate a personal or funny 'Truth' question"))
	assert.Contains(t, req.Prompt, "lighthearted")
	assert.Equal(t, "The TRUTH text in English.", req.Description)
}

func TestGeminiProviderInvalidResponses(t *testing.T) {
	for _, body := range []string{"", "not json", `{"other":"x"}`, `{"challenge":"  "}`} {
		p := NewGeminiProvider(&fakeGenerator{body: body}, SettingPrivate, 0, nil)
		_, err := p.Lookup(context.Background(), truthEN())
		assert.ErrorIs(t, err, ErrInvalidResponse, body)
	}

	boom := errors.New("quota")
	p := NewGeminiProvider(&fakeGenerator{err: boom}, SettingPrivate, 0, nil)
	_, err := p.Lookup(context.Background(), truthEN())
	assert.ErrorIs(t, err, boom)
}

func TestGeminiProviderTimeout(t *testing.T) {
	p := NewGeminiProvider(&fakeGenerator{wait: true}, SettingPrivate, 10*time.Millisecond, nil)
	_, err := p.Lookup(context.Background(), truthEN())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPrompt(t *testing.T) {
	req := Request{Type: game.ChallengeDare, Difficulty: game.DifficultyExtreme, Language: game.LanguageMY}
	prompt := Prompt(req, SettingPublic)
	assert.True(t, strings.HasPrefix(prompt, "Jana 'Cabaran' yang performatif"))
	assert.Contains(t, prompt, "Tolak had pemain")
	assert.NotContains(t, prompt, intensifiedAddendum)

	req.Intensified = true
	req.StealFailure = true
	prompt = Prompt(req, "")
	assert.True(t, strings.HasPrefix(prompt, "Jana 'Cabaran' yang seronok"), "unknown settings fall back to private")
	assert.True(t, strings.HasSuffix(prompt, intensifiedAddendum+stealFailureAddendum))

	assert.Equal(t, "You are 'Truth or Trap', a party game AI. Your response must be in Simplified Chinese.",
		SystemInstruction(game.LanguageCN))
}
