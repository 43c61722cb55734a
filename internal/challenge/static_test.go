package challenge

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/truthortrap/trap-server-go/internal/game"
	"github.com/truthortrap/trap-server-go/internal/game/rules"
)

func truthEN() Request {
	return Request{Type: game.ChallengeTruth, Difficulty: game.DifficultySimple, Language: game.LanguageEN}
}

func TestEmbeddedCorpusCoversEveryFilter(t *testing.T) {
	corpus, err := EmbeddedCorpus()
	require.NoError(t, err)
	require.Equal(t, 54, corpus.Len())

	for _, lang := range []game.Language{game.LanguageEN, game.LanguageCN, game.LanguageMY} {
		for _, diff := range []game.Difficulty{game.DifficultySimple, game.DifficultyNormal, game.DifficultyExtreme} {
			for _, typ := range []game.ChallengeType{game.ChallengeTruth, game.ChallengeDare} {
				req := Request{Type: typ, Difficulty: diff, Language: lang}
				assert.Len(t, corpus.Filter(req), 3, "%s/%s/%s", lang, diff, typ)
			}
		}
	}
}

func TestStaticProviderPicksFromFilter(t *testing.T) {
	corpus, err := EmbeddedCorpus()
	require.NoError(t, err)
	src := rules.NewScripted(nil, []int{1})
	p := NewStaticProvider(corpus, src, zaptest.NewLogger(t))

	text, err := p.Lookup(context.Background(), truthEN())
	require.NoError(t, err)
	assert.Equal(t, "Which cartoon character did you have a crush on as a kid?", text)
}

func TestStaticProviderMatchesCaseInsensitively(t *testing.T) {
	corpus := NewCorpus([]Entry{
		{ID: "1", Type: "Dare", Difficulty: "NORMAL", Language: "cn", Content: "跳舞"},
		{ID: "2", Type: "DARE", Difficulty: "normal", Language: "EN", Content: "dance"},
		{ID: "3", Type: "DARE", Difficulty: "normal", Language: "EN", Content: "   "},
	})
	require.Equal(t, 2, corpus.Len())
	p := NewStaticProvider(corpus, rules.NewScripted(nil, nil), nil)

	text, err := p.Lookup(context.Background(), Request{Type: game.ChallengeDare, Difficulty: game.DifficultyNormal, Language: game.LanguageCN})
	require.NoError(t, err)
	assert.Equal(t, "跳舞", text)
}

func TestStaticProviderNoMatch(t *testing.T) {
	p := NewStaticProvider(NewCorpus(nil), rules.NewScripted(nil, nil), zaptest.NewLogger(t))

	text, err := p.Lookup(context.Background(), truthEN())
	require.NoError(t, err)
	assert.Equal(t, NoMatchText, text)

	req := truthEN()
	req.Type = game.ChallengeDare
	req.StealFailure = true
	text, err = p.Lookup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, NoMatchText, text, "the sentinel is never punished")
}

func TestStaticProviderStealFailureSuffix(t *testing.T) {
	corpus := NewCorpus([]Entry{
		{Type: "TRUTH", Difficulty: "SIMPLE", Language: "EN", Content: "why?"},
		{Type: "DARE", Difficulty: "SIMPLE", Language: "EN", Content: "jump"},
	})
	p := NewStaticProvider(corpus, rules.NewScripted(nil, nil), nil)

	req := truthEN()
	req.StealFailure = true
	text, err := p.Lookup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "why?", text)

	req.Type = game.ChallengeDare
	text, err = p.Lookup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "jump"+StealPunishmentSuffix, text)
}

func TestStaticProviderIntensifiedEscalates(t *testing.T) {
	corpus := NewCorpus([]Entry{
		{Type: "DARE", Difficulty: "NORMAL", Language: "EN", Content: "normal"},
		{Type: "DARE", Difficulty: "EXTREME", Language: "EN", Content: "extreme"},
	})
	p := NewStaticProvider(corpus, rules.NewScripted(nil, nil), nil)

	req := Request{Type: game.ChallengeDare, Difficulty: game.DifficultyNormal, Language: game.LanguageEN, Intensified: true}
	text, err := p.Lookup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "extreme", text)

	req.Difficulty = game.DifficultyExtreme
	text, err = p.Lookup(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "extreme", text)
}

func TestStaticProviderRejectsBadRequests(t *testing.T) {
	p := NewStaticProvider(NewCorpus(nil), rules.NewScripted(nil, nil), nil)

	_, err := p.Lookup(context.Background(), Request{Difficulty: game.DifficultySimple, Language: game.LanguageEN})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Lookup(ctx, truthEN())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticProviderUniformPick(t *testing.T) {
	corpus, err := EmbeddedCorpus()
	require.NoError(t, err)
	p := NewStaticProvider(corpus, rules.NewSeeded(3), nil)

	seen := map[string]int{}
	for i := 0; i < 3000; i++ {
		text, err := p.Lookup(context.Background(), truthEN())
		require.NoError(t, err)
		seen[text]++
	}
	require.Len(t, seen, 3)
	for text, n := range seen {
		assert.InDelta(t, 1000, n, 120, text)
	}
}

func TestLoadCorpusFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	body := `[{"id":"a","type":"TRUTH","difficulty":"SIMPLE","language":"MY","content":"Siapa?"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	corpus, err := LoadCorpusFile(path)
	require.NoError(t, err)
	matches := corpus.Filter(Request{Type: game.ChallengeTruth, Difficulty: game.DifficultySimple, Language: game.LanguageMY})
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].ID)

	_, err = LoadCorpusFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = ReadCorpus(strings.NewReader(`{"not":"a list"}`))
	assert.Error(t, err)
}
