package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/truthortrap/trap-server-go/internal/challenge"
	"github.com/truthortrap/trap-server-go/internal/game"
	"github.com/truthortrap/trap-server-go/internal/game/rules"
	"github.com/truthortrap/trap-server-go/internal/game/watchers"
	"github.com/truthortrap/trap-server-go/internal/storage"
)

// AvatarCount is the number of generated default avatars.
const AvatarCount = 16

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// AvatarURL returns default avatar i, wrapping around AvatarCount.
func AvatarURL(i int) string {
	if i < 0 {
		i = -i
	}
	return fmt.Sprintf("https://api.dicebear.com/9.x/open-peeps/svg?seed=player%d", i%AvatarCount)
}

// Options configures a Session. Zero values pick sensible defaults.
type Options struct {
	Logger   *zap.Logger
	Source   rules.Source
	Provider challenge.Provider
	Store    storage.Store
	Replays  *game.ReplayRecorder

	// SnapshotKey defaults to game.SnapshotKey.
	SnapshotKey string
	// Language and Difficulty seed a fresh game when no snapshot exists.
	Language   game.Language
	Difficulty game.Difficulty

	// AutoAdvance arms the picker and reveal timers. Without it a client must send
	// NEXT_PLAYER and REVEAL_BATTLE itself.
	AutoAdvance bool
	PickDelay   time.Duration
	RevealDelay time.Duration

	// LookupTimeout bounds one provider call. Defaults to 15s.
	LookupTimeout time.Duration
	// SaveTimeout bounds one snapshot write. Defaults to 2s.
	SaveTimeout time.Duration
}

// Session is the single state container for one shared-device game.
type Session struct {
	logger   *zap.Logger
	reducer  *game.Reducer
	provider challenge.Provider
	store    storage.Store
	key      string
	bus      *rules.EventBus
	replays  *game.ReplayRecorder
	stats    *rules.WatcherRegistry

	autoAdvance   bool
	pickDelay     time.Duration
	revealDelay   time.Duration
	lookupTimeout time.Duration
	saveTimeout   time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	lookups sync.WaitGroup

	mu     sync.Mutex
	state  game.State
	closed bool
	picker timer
	reveal timer
}

// New creates a session, restoring the saved game from the store when there is one.
// A missing or unreadable snapshot starts a fresh game.
func New(ctx context.Context, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		logger:        logger,
		reducer:       game.NewReducer(opts.Source),
		provider:      opts.Provider,
		store:         opts.Store,
		key:           opts.SnapshotKey,
		bus:           rules.NewEventBus(),
		stats:         watchers.NewRegistry(),
		replays:       opts.Replays,
		autoAdvance:   opts.AutoAdvance,
		pickDelay:     opts.PickDelay,
		revealDelay:   opts.RevealDelay,
		lookupTimeout: opts.LookupTimeout,
		saveTimeout:   opts.SaveTimeout,
	}
	if s.key == "" {
		s.key = game.SnapshotKey
	}
	if s.lookupTimeout <= 0 {
		s.lookupTimeout = 15 * time.Second
	}
	if s.saveTimeout <= 0 {
		s.saveTimeout = 2 * time.Second
	}
	if s.replays == nil {
		s.replays = game.NewReplayRecorder(logger, "")
	}
	s.stats.Attach(s.bus)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.state = s.restore(ctx, opts)
	return s
}

func (s *Session) restore(ctx context.Context, opts Options) game.State {
	fresh := game.Initial()
	if opts.Language.Valid() {
		fresh.Language = opts.Language
	}
	if opts.Difficulty.Valid() {
		fresh.Difficulty = opts.Difficulty
	}
	if s.store == nil {
		return fresh
	}

	data, err := s.store.Load(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return fresh
	}
	if err != nil {
		s.logger.Warn("failed to load snapshot", zap.String("key", s.key), zap.Error(err))
		return fresh
	}
	restored, err := game.RestoreSnapshot(data)
	if err != nil {
		s.logger.Warn("discarding unreadable snapshot", zap.String("key", s.key), zap.Error(err))
		return fresh
	}
	s.logger.Info("restored saved game",
		zap.Int("players", len(restored.Players)),
		zap.String("language", string(restored.Language)),
	)
	return restored
}

// State returns a copy of the current state.
func (s *Session) State() game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Targets lists who the current player may select for card.
func (s *Session) Targets(card game.Card) ([]game.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Targets(card)
}

// Stats reports the table statistics of the current game, keyed by watcher.
func (s *Session) Stats() map[string]any {
	return s.stats.Stats()
}

// Subscribe registers a listener for every event and returns an unsubscribe func.
// Listeners run on the dispatching goroutine after the state lock is released.
func (s *Session) Subscribe(listener rules.Listener) func() {
	handle := s.bus.Subscribe(listener)
	return func() { s.bus.Unsubscribe(handle) }
}

// SubscribeTyped registers a listener for one event type.
func (s *Session) SubscribeTyped(t rules.EventType, listener rules.Listener) func() {
	handle := s.bus.SubscribeTyped(t, listener)
	return func() { s.bus.Unsubscribe(handle) }
}

// Dispatch applies a to the current state. Rejected actions leave the state unchanged
// and return an error wrapping game.ErrRejected.
func (s *Session) Dispatch(a game.Action) (game.State, error) {
	return s.dispatch(a, nil)
}

// dispatch applies a if guard (evaluated under the lock) allows it.
func (s *Session) dispatch(a game.Action, guard func() bool) (game.State, error) {
	return s.dispatchFrom(func(game.State) (game.Action, bool) {
		return a, guard == nil || guard()
	})
}

// dispatchFrom builds the action from the current state under the lock. A false ok
// skips the transition and returns the current state.
func (s *Session) dispatchFrom(build func(game.State) (game.Action, bool)) (game.State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return game.State{}, ErrClosed
	}
	a, ok := build(s.state)
	if !ok {
		out := s.state.Clone()
		s.mu.Unlock()
		return out, nil
	}

	before := s.state
	after, err := s.reducer.Step(before, a)
	if err != nil {
		out := before.Clone()
		s.mu.Unlock()

		s.logger.Debug("action rejected", zap.String("action", string(actionKind(a))), zap.Error(err))
		ev := rules.NewEvent(rules.EventRejected, string(actionKind(a)), "")
		ev.Data = err.Error()
		s.bus.Publish(ev)
		return out, err
	}

	s.state = after
	s.record(after, a)
	s.persist(after)
	s.schedule(after, a)
	out := after.Clone()
	s.mu.Unlock()

	s.bus.PublishBatch(game.TransitionEvents(before, after, a))
	return out, nil
}

func actionKind(a game.Action) game.ActionKind {
	if a == nil {
		return ""
	}
	return a.Kind()
}

func (s *Session) record(after game.State, a game.Action) {
	switch a.(type) {
	case game.StartGame:
		s.replays.Begin(uuid.NewString(), after)
	case game.ResetGame:
		s.replays.Record(a.Kind(), after)
		s.replays.Finish()
	default:
		s.replays.Record(a.Kind(), after)
	}
}

func (s *Session) persist(st game.State) {
	if s.store == nil {
		return
	}
	data, err := game.EncodeSnapshot(st, time.Now())
	if err != nil {
		s.logger.Warn("failed to encode snapshot", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.saveTimeout)
	defer cancel()
	if err := s.store.Save(ctx, s.key, data); err != nil {
		s.logger.Warn("failed to save snapshot", zap.String("key", s.key), zap.Error(err))
	}
}

// schedule starts the asynchronous work an accepted transition calls for.
func (s *Session) schedule(after game.State, a game.Action) {
	if _, ok := a.(game.RequestChallenge); ok && after.Challenge.Phase == game.ChallengeRequested {
		s.startLookup(after)
	}
	s.armTimers(after)
}

// AddPlayer seats a new player with a fresh id and the next default avatar.
func (s *Session) AddPlayer(name string) (game.Player, error) {
	p := game.Player{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(name),
		Cards: []game.Card{},
	}
	_, err := s.dispatchFrom(func(st game.State) (game.Action, bool) {
		p.Avatar = AvatarURL(len(st.Players))
		return game.AddPlayer{Player: p}, true
	})
	if err != nil {
		return game.Player{}, err
	}
	return p, nil
}

// RequestChallenge asks for a challenge of type t for the current player. The text
// arrives asynchronously as RECEIVE_CHALLENGE or CHALLENGE_FAIL.
func (s *Session) RequestChallenge(t game.ChallengeType) (game.State, error) {
	return s.Dispatch(game.RequestChallenge{Type: t})
}

// Undo rolls the game back one accepted transition.
func (s *Session) Undo() (game.State, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return game.State{}, ErrClosed
	}
	prev, err := s.replays.Undo()
	if err != nil {
		s.mu.Unlock()
		return game.State{}, err
	}
	s.state = prev
	s.persist(prev)
	// the lookup that answered prev is gone; fetch again under the same request id
	if prev.Challenge.Phase == game.ChallengeRequested {
		s.startLookup(prev)
	}
	s.armTimers(prev)
	out := prev.Clone()
	s.mu.Unlock()

	s.logger.Info("undid last action")
	s.bus.Publish(rules.NewEvent(rules.EventStateChanged, "UNDO", ""))
	return out, nil
}

// Wait blocks until in-flight challenge lookups have delivered their results.
func (s *Session) Wait() {
	s.lookups.Wait()
}

// Close stops timers, cancels lookups and finishes the replay. The store is left open.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.picker.stop()
	s.reveal.stop()
	s.mu.Unlock()

	s.cancel()
	s.lookups.Wait()
	s.replays.Finish()
	s.logger.Info("session closed")
	return nil
}
