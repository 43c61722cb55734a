package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthortrap/trap-server-go/internal/game/rules"
)

func TestUseCardRequiresHolding(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben", "Cy")
	s = give(t, r, s, "p2", AllCards...)

	for _, c := range AllCards {
		requireRejected(t, r, s, UseCard{Card: c})
	}
	requireRejected(t, r, s, UseCard{Card: "JOKER"})
}

func TestImmunitySkipsTurnAnytime(t *testing.T) {
	src := rules.NewScripted([]float64{0.0}, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben")
	s = give(t, r, s, "p1", CardImmunity, CardImmunity)
	s = pick(t, r, src, s, 0)
	require.True(t, s.IsForcedDare)
	s = issue(t, r, s, ChallengeDare, "dare")

	s = mustStep(t, r, s, UseCard{Card: CardImmunity})
	assert.Equal(t, 1, s.Players[0].CountCard(CardImmunity))
	assert.True(t, s.IsPickingPlayer())
	assert.Nil(t, s.CurrentPlayerIndex)
	assert.Equal(t, 0, *s.PreviousPlayerIndex)
	assert.Equal(t, 0, s.Players[0].ConsecutiveTurns)
	assert.False(t, s.HasActiveChallenge())
	assert.Nil(t, s.LastCardAwarded, "immunity bypasses the card drop")
	require.NotNil(t, s.GameMessage)
	assert.Equal(t, MsgImmunityUsed, s.GameMessage.Key)

	// the queued 0.0 float was never consumed: no drop roll happened
	assert.Equal(t, 0.0, src.Float64())

	src.PushInts(0)
	s = mustStep(t, r, s, NextPlayer{})
	assert.Equal(t, 1, s.Players[0].ConsecutiveTurns)
	assert.False(t, s.IsForcedDare)
}

func TestIntensify(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben")
	s = give(t, r, s, "p1", CardIntensify)

	during := issue(t, r, s, ChallengeTruth, "truth")
	requireRejected(t, r, during, UseCard{Card: CardIntensify})

	s = mustStep(t, r, s, UseCard{Card: CardIntensify})
	assert.True(t, s.IsNextChallengeIntensified)
	assert.True(t, s.IsPickingPlayer())
	assert.Empty(t, s.Players[0].Cards)
	assert.Equal(t, MsgIntensifyUsed, s.GameMessage.Key)

	src.PushInts(1)
	s = mustStep(t, r, s, NextPlayer{})
	assert.True(t, s.IsNextChallengeIntensified)
	s = mustStep(t, r, s, RequestChallenge{Type: ChallengeDare})
	assert.True(t, s.IsNextChallengeIntensified, "flag must reach the lookup")
	s = mustStep(t, r, s, ReceiveChallenge{RequestID: s.Challenge.RequestID, Type: ChallengeDare, Text: "harder"})
	assert.False(t, s.IsNextChallengeIntensified)
}

func TestReverseRedirectsToPreviousPlayer(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben", "Cy")
	s = give(t, r, s, "p1", CardReverse)
	s = give(t, r, s, "p2", CardReverse)

	// no previous player on the first turn
	first := issue(t, r, s, ChallengeDare, "dare")
	requireRejected(t, r, first, UseCard{Card: CardReverse})

	s = pick(t, r, src, s, 1)
	requireRejected(t, r, s, UseCard{Card: CardReverse})

	s = issue(t, r, s, ChallengeDare, "sing a song")
	s = mustStep(t, r, s, UseCard{Card: CardReverse})

	assert.Equal(t, 0, *s.CurrentPlayerIndex)
	assert.Equal(t, 0, *s.Challenge.CurrentExecutorIndex)
	assert.Equal(t, 1, *s.Challenge.OriginalExecutorIndex)
	assert.Equal(t, "sing a song", s.Challenge.Text)
	assert.Equal(t, ChallengeDare, s.Challenge.Type)
	assert.Empty(t, s.Players[1].Cards)
	assert.Equal(t, []Card{CardReverse}, s.Players[0].Cards)
	assert.Equal(t, map[string]string{"fromName": "Ben", "toName": "Ana"}, s.GameMessage.Options)

	// Ana now executes and her previous-player target is herself
	requireRejected(t, r, s, UseCard{Card: CardReverse})
}

func TestKingSetsCustomChallenge(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben", "Cy")
	s = give(t, r, s, "p1", CardKing)
	s = pick(t, r, src, s, 0)
	require.True(t, s.IsForcedDare)

	requireRejected(t, r, s, SetCustomChallenge{TargetPlayerID: "p1", Type: ChallengeDare, Text: "x"})
	requireRejected(t, r, s, SetCustomChallenge{TargetPlayerID: "p9", Type: ChallengeDare, Text: "x"})
	requireRejected(t, r, s, SetCustomChallenge{TargetPlayerID: "p2", Type: ChallengeDare, Text: "  "})
	requireRejected(t, r, s, SetCustomChallenge{TargetPlayerID: "p2", Type: "", Text: "x"})

	during := issue(t, r, s, ChallengeDare, "dare")
	requireRejected(t, r, during, UseCard{Card: CardKing})
	requireRejected(t, r, during, SetCustomChallenge{TargetPlayerID: "p2", Type: ChallengeDare, Text: "x"})

	s = mustStep(t, r, s, UseCard{Card: CardKing})
	assert.Equal(t, DialogKing, s.Dialog)
	s = mustStep(t, r, s, SetCustomChallenge{TargetPlayerID: "p3", Type: ChallengeTruth, Text: " Who do you admire? "})

	assert.Empty(t, s.Players[0].Cards)
	assert.Equal(t, 2, *s.CurrentPlayerIndex)
	assert.Equal(t, ChallengeReceived, s.Challenge.Phase)
	assert.Equal(t, "Who do you admire?", s.Challenge.Text)
	assert.Equal(t, 0, *s.Challenge.OriginalExecutorIndex)
	assert.Equal(t, 2, *s.Challenge.CurrentExecutorIndex)
	assert.False(t, s.IsForcedDare)
	assert.False(t, s.IsLoading())
	assert.Equal(t, DialogNone, s.Dialog)
	assert.Equal(t, MsgKingUsed, s.GameMessage.Key)
	assert.Equal(t, map[string]string{"kingName": "Ana", "targetName": "Cy"}, s.GameMessage.Options)
	assert.Equal(t, 0, s.Players[2].DareStreak, "king challenges do not touch streaks")
}

func TestMirrorUnavailableHeadsUp(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben")
	s = give(t, r, s, "p1", CardMirror)
	s = issue(t, r, s, ChallengeDare, "dare")

	for _, a := range []Action{UseCard{Card: CardMirror}, OpenMirrorTargetSelect{}, ApplyMirrorEffect{TargetID: "p2"}} {
		next := mustStep(t, r, s, a)
		want := s.Clone()
		want.GameMessage = &GameMessage{Key: MsgMirrorFail1v1}
		assert.Equal(t, want, next, "action %s", a.Kind())
		assert.Equal(t, 1, next.Players[0].CountCard(CardMirror))
	}
}

func TestMirrorRedirectsChallenge(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben", "Cy")
	s = give(t, r, s, "p1", CardMirror)
	s = pick(t, r, src, s, 0)
	require.True(t, s.IsForcedDare)
	s = issue(t, r, s, ChallengeDare, "dance")

	requireRejected(t, r, s, ApplyMirrorEffect{TargetID: "p1"})
	s = mustStep(t, r, s, UseCard{Card: CardMirror})
	s = mustStep(t, r, s, ApplyMirrorEffect{TargetID: "p3"})

	assert.Empty(t, s.Players[0].Cards)
	assert.Equal(t, 2, *s.CurrentPlayerIndex)
	assert.Equal(t, 2, *s.Challenge.CurrentExecutorIndex)
	assert.Equal(t, 0, *s.Challenge.OriginalExecutorIndex)
	assert.Equal(t, "dance", s.Challenge.Text)
	assert.True(t, s.IsForcedDare, "forced dare follows the redirect")
	assert.False(t, s.IsSelectingMirrorTarget())
	assert.Equal(t, map[string]string{"fromName": "Ana", "toName": "Cy"}, s.GameMessage.Options)
}

func TestMirrorWithoutActiveChallenge(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben", "Cy")
	s = give(t, r, s, "p1", CardMirror)

	s = mustStep(t, r, s, ApplyMirrorEffect{TargetID: "p2"})
	assert.Equal(t, 1, *s.CurrentPlayerIndex)

	s = mustStep(t, r, s, RequestChallenge{Type: ChallengeDare})
	assert.Equal(t, 1, *s.Challenge.OriginalExecutorIndex)
	assert.Equal(t, 1, *s.Challenge.CurrentExecutorIndex)
}

func TestPartnerSharedCompletion(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben", "Cy")
	s = give(t, r, s, "p1", CardPartner, CardPartner, CardMirror)
	s = issue(t, r, s, ChallengeDare, "duet")

	requireRejected(t, r, s, ApplyPartnerEffect{TargetID: "p1"})
	s = mustStep(t, r, s, ApplyPartnerEffect{TargetID: "p2"})
	assert.Equal(t, ExecutionShared, s.Challenge.ExecutionMode)
	assert.Equal(t, 1, *s.Challenge.PartnerIndex)
	assert.Equal(t, 0, *s.CurrentPlayerIndex, "partner does not change the current player")
	assert.Equal(t, 1, s.Players[0].CountCard(CardPartner))
	assert.Equal(t, map[string]string{"initiatorName": "Ana", "partnerName": "Ben"}, s.GameMessage.Options)

	// one partner per challenge, and mirror cannot hand the challenge to the partner
	requireRejected(t, r, s, UseCard{Card: CardPartner})
	requireRejected(t, r, s, ApplyPartnerEffect{TargetID: "p3"})
	requireRejected(t, r, s, ApplyMirrorEffect{TargetID: "p2"})

	requireRejected(t, r, s, StartPlayerPicking{})
	s = mustStep(t, r, s, CompleteTurn{})
	assert.True(t, s.Challenge.ExecutorCompleted)
	assert.False(t, s.Challenge.PartnerCompleted)
	assert.Equal(t, TurnActive, s.Turn)
	assert.Equal(t, MsgWaitingForPartner, s.GameMessage.Key)
	requireRejected(t, r, s, CompleteTurn{})
	requireRejected(t, r, s, StartPlayerPicking{})

	s = mustStep(t, r, s, CompletePartnerTurn{})
	assert.True(t, s.IsPickingPlayer())
	assert.Equal(t, ExecutionSolo, s.Challenge.ExecutionMode)
}

func TestPartnerCompletesFirst(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben")
	s = give(t, r, s, "p1", CardPartner)
	requireRejected(t, r, s, CompletePartnerTurn{})

	s = mustStep(t, r, s, ApplyPartnerEffect{TargetID: "p2"})
	s = issue(t, r, s, ChallengeDare, "duet")
	assert.Equal(t, ExecutionShared, s.Challenge.ExecutionMode, "link made before the request survives it")

	s = mustStep(t, r, s, CompletePartnerTurn{})
	assert.True(t, s.Challenge.PartnerCompleted)
	assert.Equal(t, TurnActive, s.Turn)
	requireRejected(t, r, s, CompletePartnerTurn{})

	s = mustStep(t, r, s, CompleteTurn{})
	assert.True(t, s.IsPickingPlayer())
}

func TestCompleteTurnSolo(t *testing.T) {
	src := rules.NewScripted(nil, nil)
	r, s := startedAt(t, src, 0, "Ana", "Ben")
	requireRejected(t, r, s, CompleteTurn{})

	s = issue(t, r, s, ChallengeTruth, "truth")
	s = mustStep(t, r, s, CompleteTurn{})
	assert.True(t, s.IsPickingPlayer())
	assert.False(t, s.HasActiveChallenge())
}
