package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/truthortrap/trap-server-go/internal/challenge"
	"github.com/truthortrap/trap-server-go/internal/game"
)

// startLookup fetches text for the challenge just requested in st. Called with s.mu held.
func (s *Session) startLookup(st game.State) {
	req, ok := challenge.RequestFor(st)
	if !ok {
		return
	}
	id := st.Challenge.RequestID

	s.lookups.Add(1)
	go func() {
		defer s.lookups.Done()
		s.lookup(id, req)
	}()
}

func (s *Session) lookup(id uint64, req challenge.Request) {
	logger := s.logger.With(
		zap.Uint64("request_id", id),
		zap.String("type", string(req.Type)),
		zap.String("difficulty", string(req.Difficulty)),
		zap.String("language", string(req.Language)),
	)

	var (
		text string
		err  error
	)
	if s.provider == nil {
		err = challenge.ErrNoProvider
	} else {
		ctx, cancel := context.WithTimeout(s.ctx, s.lookupTimeout)
		text, err = s.provider.Lookup(ctx, req)
		cancel()
	}
	if s.ctx.Err() != nil {
		return
	}

	var action game.Action = game.ReceiveChallenge{RequestID: id, Type: req.Type, Text: text}
	if err != nil {
		logger.Warn("challenge lookup failed", zap.Error(err))
		action = game.ChallengeFail{RequestID: id}
	}
	// a stale id is rejected by the reducer; that is the expected outcome when the
	// turn moved on while the lookup was running
	if _, err := s.Dispatch(action); err != nil {
		logger.Debug("dropped challenge response", zap.Error(err))
	}
}
