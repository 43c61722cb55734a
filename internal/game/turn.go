package game

import "github.com/truthortrap/trap-server-go/internal/game/rules"

func (r *Reducer) startPicking(s State) (State, error) {
	if _, err := r.actor(s); err != nil {
		return s, err
	}
	if s.Challenge.awaitingShared() {
		return s, reject("shared challenge not completed by both players")
	}
	return r.closeTurn(s), nil
}

// closeTurn ends the current turn. When a challenge was actually issued the player who
// held the turn may receive a card, in which case picking waits for the award to be cleared.
func (r *Reducer) closeTurn(s State) State {
	next := s.Clone()
	next.Challenge = emptyChallenge()
	next.GameMessage = nil
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.Turn = TurnPicking

	idx := s.CurrentPlayerIndex
	if _, ok := s.PlayerAt(idx); !ok || s.Challenge.Phase != ChallengeReceived {
		return next
	}
	if !rules.Chance(r.src, DropChance) {
		return next
	}
	card, ok := r.pool.Draw(r.src)
	if !ok {
		return next
	}
	next.Players[*idx] = next.Players[*idx].withCard(card)
	next.LastCardAwarded = &CardAward{PlayerName: next.Players[*idx].Name, Card: card}
	next.Turn = TurnAwaitingAward
	return next
}

func (r *Reducer) nextPlayer(s State) (State, error) {
	if s.Screen != ScreenGame || s.Turn != TurnPicking {
		return s, reject("picker is not running")
	}
	if len(s.Players) == 0 {
		return s, reject("no players seated")
	}

	counters := make([]int, len(s.Players))
	for i, p := range s.Players {
		counters[i] = p.ConsecutiveTurns
	}
	current := rules.NoSeat
	if _, ok := s.CurrentPlayer(); ok {
		current = *s.CurrentPlayerIndex
	}
	rot := rules.ApplyPick(counters, current, rules.Uniform(r.src, len(s.Players)))

	next := s.Clone()
	for i := range next.Players {
		next.Players[i].ConsecutiveTurns = rot.Counters[i]
	}
	if current != rules.NoSeat {
		next.PreviousPlayerIndex = index(current)
	}
	next.CurrentPlayerIndex = index(rot.Picked)
	next.Challenge = emptyChallenge()
	next.IsForcedDare = rot.Forced
	next.GameMessage = nil
	next.Turn = TurnActive
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	return next, nil
}

func (r *Reducer) completeTurn(s State) (State, error) {
	if _, err := r.actor(s); err != nil {
		return s, err
	}
	if s.Challenge.Phase != ChallengeReceived {
		return s, reject("no challenge to complete")
	}
	if s.Challenge.ExecutionMode != ExecutionShared {
		return r.closeTurn(s), nil
	}
	if s.Challenge.ExecutorCompleted {
		return s, reject("executor already completed")
	}

	next := s.Clone()
	next.Challenge.ExecutorCompleted = true
	if next.Challenge.PartnerCompleted {
		return r.closeTurn(next), nil
	}
	if partner, ok := next.PlayerAt(next.Challenge.PartnerIndex); ok {
		next.GameMessage = message(MsgWaitingForPartner, "name", partner.Name)
	}
	return next, nil
}

func (r *Reducer) completePartnerTurn(s State) (State, error) {
	if _, err := r.actor(s); err != nil {
		return s, err
	}
	if s.Challenge.Phase != ChallengeReceived || s.Challenge.ExecutionMode != ExecutionShared {
		return s, reject("no shared challenge to complete")
	}
	if s.Challenge.PartnerCompleted {
		return s, reject("partner already completed")
	}

	next := s.Clone()
	next.Challenge.PartnerCompleted = true
	if next.Challenge.ExecutorCompleted {
		return r.closeTurn(next), nil
	}
	if executor, ok := next.PlayerAt(next.Challenge.CurrentExecutorIndex); ok {
		next.GameMessage = message(MsgWaitingForPartner, "name", executor.Name)
	}
	return next, nil
}

// awaitingShared reports whether an issued shared challenge still waits on someone.
func (c Challenge) awaitingShared() bool {
	return c.Phase == ChallengeReceived &&
		c.ExecutionMode == ExecutionShared &&
		!(c.ExecutorCompleted && c.PartnerCompleted)
}
