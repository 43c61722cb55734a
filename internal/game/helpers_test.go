package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthortrap/trap-server-go/internal/game/rules"
)

// seat returns a setup-screen state with one player per name, ids p1..pn.
func seat(t *testing.T, names ...string) State {
	t.Helper()
	r := NewReducer(rules.NewScripted(nil, nil))
	s := Initial()
	for i, name := range names {
		s = mustStep(t, r, s, AddPlayer{Player: Player{ID: fmt.Sprintf("p%d", i+1), Name: name}})
	}
	return s
}

// startedAt returns a running game whose current player is seat idx.
func startedAt(t *testing.T, src *rules.Scripted, idx int, names ...string) (*Reducer, State) {
	t.Helper()
	r := NewReducer(src)
	s := mustStep(t, r, seat(t, names...), StartGame{})
	src.PushInts(idx)
	s = mustStep(t, r, s, NextPlayer{})
	require.Equal(t, idx, *s.CurrentPlayerIndex)
	return r, s
}

func mustStep(t *testing.T, r *Reducer, s State, a Action) State {
	t.Helper()
	next, err := r.Step(s, a)
	require.NoError(t, err, "action %s", a.Kind())
	return next
}

func requireRejected(t *testing.T, r *Reducer, s State, a Action) {
	t.Helper()
	before := s.Clone()
	next, err := r.Step(s, a)
	require.ErrorIs(t, err, ErrRejected, "action %s", a.Kind())
	assert.Equal(t, before, next)
	assert.Equal(t, before, s, "input state must not be modified")
}

func give(t *testing.T, r *Reducer, s State, playerID string, cards ...Card) State {
	t.Helper()
	for _, c := range cards {
		s = mustStep(t, r, s, AddCardToPlayer{PlayerID: playerID, Card: c})
	}
	return s
}

// issue requests and receives a challenge for the current player.
func issue(t *testing.T, r *Reducer, s State, typ ChallengeType, text string) State {
	t.Helper()
	s = mustStep(t, r, s, RequestChallenge{Type: typ})
	return mustStep(t, r, s, ReceiveChallenge{RequestID: s.Challenge.RequestID, Type: typ, Text: text})
}

// pick closes the current turn without a drop and picks seat idx.
func pick(t *testing.T, r *Reducer, src *rules.Scripted, s State, idx int) State {
	t.Helper()
	if s.Turn == TurnActive {
		s = mustStep(t, r, s, StartPlayerPicking{})
	}
	if s.Turn == TurnAwaitingAward {
		s = mustStep(t, r, s, ClearCardAward{})
	}
	src.PushInts(idx)
	return mustStep(t, r, s, NextPlayer{})
}
