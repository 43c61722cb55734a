package challenge

import (
	"context"

	"go.uber.org/zap"

	"github.com/truthortrap/trap-server-go/internal/game/rules"
)

// StaticProvider picks uniformly from a corpus.
type StaticProvider struct {
	corpus *Corpus
	src    rules.Source
	logger *zap.Logger
}

// NewStaticProvider creates a provider over corpus using src for picks.
func NewStaticProvider(corpus *Corpus, src rules.Source, logger *zap.Logger) *StaticProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if corpus == nil {
		corpus = NewCorpus(nil)
	}
	return &StaticProvider{corpus: corpus, src: src, logger: logger}
}

// Lookup implements Provider. An intensified request draws from the next harder
// difficulty. A filter with no entries yields NoMatchText rather than an error.
func (p *StaticProvider) Lookup(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	if req.Intensified {
		req.Difficulty = req.Difficulty.Escalate()
	}

	matches := p.corpus.Filter(req)
	if len(matches) == 0 {
		p.logger.Info("no challenges for filter",
			zap.String("type", string(req.Type)),
			zap.String("difficulty", string(req.Difficulty)),
			zap.String("language", string(req.Language)),
		)
		return NoMatchText, nil
	}
	picked := matches[rules.Uniform(p.src, len(matches))]
	return req.punish(picked.Content), nil
}
