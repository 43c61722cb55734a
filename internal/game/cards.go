package game

import (
	"errors"
	"strings"

	"github.com/truthortrap/trap-server-go/internal/game/rules"
	"github.com/truthortrap/trap-server-go/internal/game/targeting"
)

// dialogFor maps cards that need a target to their selection dialog.
var dialogFor = map[Card]Dialog{
	CardKing:    DialogKing,
	CardBattle:  DialogBattleSetup,
	CardSteal:   DialogSteal,
	CardMirror:  DialogMirrorTarget,
	CardPartner: DialogPartnerTarget,
}

func (r *Reducer) useCard(s State, card Card) (State, error) {
	cur, err := r.actor(s)
	if err != nil {
		return s, err
	}
	if !card.Valid() {
		return s, reject("unknown card %q", card)
	}
	if !s.Players[cur].HasCard(card) {
		return s, reject("%s does not hold %s", s.Players[cur].Name, card)
	}

	switch card {
	case CardImmunity:
		return r.skipTurn(s, cur, CardImmunity, MsgImmunityUsed), nil
	case CardIntensify:
		if s.HasActiveChallenge() {
			return s, reject("intensify cannot be used during a challenge")
		}
		next := r.skipTurn(s, cur, CardIntensify, MsgIntensifyUsed)
		next.IsNextChallengeIntensified = true
		return next, nil
	case CardReverse:
		return r.useReverse(s, cur)
	default:
		return r.openTargetDialog(s, cur, card)
	}
}

// skipTurn consumes card and sends the table straight back to the picker,
// without the end-of-turn card drop.
func (r *Reducer) skipTurn(s State, cur int, card Card, key string) State {
	next := s.Clone()
	p, _ := next.Players[cur].withoutCard(card)
	p.ConsecutiveTurns = 0
	next.Players[cur] = p

	next.PreviousPlayerIndex = index(cur)
	next.CurrentPlayerIndex = nil
	next.Challenge = emptyChallenge()
	next.Turn = TurnPicking
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.GameMessage = message(key, "name", p.Name)
	return next
}

func (r *Reducer) useReverse(s State, cur int) (State, error) {
	if s.Challenge.Phase != ChallengeReceived {
		return s, reject("reverse needs an active challenge")
	}
	prev, ok := s.PlayerAt(s.PreviousPlayerIndex)
	if !ok {
		return s, reject("reverse needs a previous player")
	}
	target := *s.PreviousPlayerIndex
	if sameIndex(s.PreviousPlayerIndex, s.Challenge.CurrentExecutorIndex) {
		return s, reject("previous player already executes the challenge")
	}
	if s.Challenge.ExecutionMode == ExecutionShared && sameIndex(s.PreviousPlayerIndex, s.Challenge.PartnerIndex) {
		return s, reject("previous player is the partner")
	}

	next := s.Clone()
	next.Players[cur], _ = next.Players[cur].withoutCard(CardReverse)
	next.CurrentPlayerIndex = index(target)
	next.Challenge.CurrentExecutorIndex = index(target)
	next.Challenge.ExecutorCompleted = false
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.GameMessage = message(MsgReverseUsed, "fromName", s.Players[cur].Name, "toName", prev.Name)
	return next, nil
}

// openTargetDialog shows the target list for a card. Nothing is consumed until the
// selection is confirmed, so cancelling is free.
func (r *Reducer) openTargetDialog(s State, cur int, card Card) (State, error) {
	switch card {
	case CardKing, CardBattle, CardSteal:
		if s.HasActiveChallenge() {
			return s, reject("%s cannot be used during a challenge", card)
		}
	case CardPartner:
		if s.Challenge.ExecutionMode == ExecutionShared {
			return s, reject("challenge already has a partner")
		}
	}

	req, err := requirement(card)
	if err != nil {
		return s, reject("%v", err)
	}
	if _, err := targeting.NewTargetValidator(tableView{s}).Eligible(s.Players[cur].ID, req); err != nil {
		if card == CardMirror && errors.Is(err, targeting.ErrTooFewPlayers) {
			return mirrorUnavailable(s), nil
		}
		return s, reject("%s: %v", card, err)
	}

	next := s.Clone()
	next.DialogReturn = DialogNone
	if s.Dialog == DialogCards {
		next.DialogReturn = DialogCards
	}
	next.Dialog = dialogFor[card]
	return next, nil
}

// mirrorUnavailable reports a Mirror attempt at a two-player table. Only the message changes.
func mirrorUnavailable(s State) State {
	next := s.Clone()
	next.GameMessage = message(MsgMirrorFail1v1)
	return next
}

// consume removes one card from the actor, rejecting when it is absent.
func consume(next *State, cur int, card Card) error {
	p, ok := next.Players[cur].withoutCard(card)
	if !ok {
		return reject("%s does not hold %s", next.Players[cur].Name, card)
	}
	next.Players[cur] = p
	return nil
}

func (r *Reducer) setCustomChallenge(s State, a SetCustomChallenge) (State, error) {
	cur, err := r.actor(s)
	if err != nil {
		return s, err
	}
	if s.HasActiveChallenge() {
		return s, reject("king cannot be used during a challenge")
	}
	if !a.Type.Valid() {
		return s, reject("invalid challenge type %q", a.Type)
	}
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return s, reject("custom challenge text is empty")
	}
	target, err := resolveTarget(s, cur, CardKing, a.TargetPlayerID)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	if err := consume(&next, cur, CardKing); err != nil {
		return s, err
	}
	next.CurrentPlayerIndex = index(target)
	next.Challenge = emptyChallenge()
	next.Challenge.Phase = ChallengeReceived
	next.Challenge.Type = a.Type
	next.Challenge.Text = text
	next.Challenge.OriginalExecutorIndex = index(cur)
	next.Challenge.CurrentExecutorIndex = index(target)
	next.IsForcedDare = false
	next.Turn = TurnActive
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.GameMessage = message(MsgKingUsed, "kingName", s.Players[cur].Name, "targetName", s.Players[target].Name)
	return next, nil
}

func (r *Reducer) startBattle(s State, a StartBattle) (State, error) {
	cur, err := r.actor(s)
	if err != nil {
		return s, err
	}
	if s.HasActiveChallenge() {
		return s, reject("battle cannot be used during a challenge")
	}
	opp, err := resolveTarget(s, cur, CardBattle, a.OpponentID)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	if err := consume(&next, cur, CardBattle); err != nil {
		return s, err
	}
	next.Battle = &Battle{
		Challenger: next.Players[cur].clone(),
		Opponent:   next.Players[opp].clone(),
		Phase:      BattleChallengerChoosing,
	}
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.GameMessage = nil
	return next, nil
}

func (r *Reducer) attemptSteal(s State, a AttemptSteal) (State, error) {
	cur, err := r.actor(s)
	if err != nil {
		return s, err
	}
	if s.HasActiveChallenge() {
		return s, reject("steal cannot be used during a challenge")
	}
	target, err := resolveTarget(s, cur, CardSteal, a.TargetID)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	if err := consume(&next, cur, CardSteal); err != nil {
		return s, err
	}
	next.Dialog, next.DialogReturn = DialogNone, DialogNone

	if !rules.Chance(r.src, StealSuccessChance) {
		next.IsStealFailure = true
		next.GameMessage = message(MsgStealFail, "name", next.Players[cur].Name)
		return next, nil
	}
	victim, ok := next.Players[target].withoutCard(CardImmunity)
	if !ok {
		next.GameMessage = message(MsgNoOneToStealFrom)
		return next, nil
	}
	next.Players[target] = victim
	next.Players[cur] = next.Players[cur].withCard(CardImmunity)
	next.GameMessage = message(MsgStealSuccess, "name", victim.Name)
	return next, nil
}

func (r *Reducer) applyMirror(s State, a ApplyMirrorEffect) (State, error) {
	cur, err := r.actor(s)
	if err != nil {
		return s, err
	}
	req, err := requirement(CardMirror)
	if err != nil {
		return s, reject("%v", err)
	}
	if len(s.Players) < req.MinPlayers {
		next := mirrorUnavailable(s)
		if next.Dialog == DialogMirrorTarget {
			next.Dialog, next.DialogReturn = DialogNone, DialogNone
		}
		return next, nil
	}
	target, err := resolveTarget(s, cur, CardMirror, a.TargetID)
	if err != nil {
		return s, err
	}

	next := s.Clone()
	if err := consume(&next, cur, CardMirror); err != nil {
		return s, err
	}
	next.CurrentPlayerIndex = index(target)
	next.Challenge.CurrentExecutorIndex = index(target)
	next.Challenge.ExecutorCompleted = false
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.GameMessage = message(MsgMirrorUsed, "fromName", s.Players[cur].Name, "toName", s.Players[target].Name)
	return next, nil
}

func (r *Reducer) applyPartner(s State, a ApplyPartnerEffect) (State, error) {
	cur, err := r.actor(s)
	if err != nil {
		return s, err
	}
	if s.Challenge.ExecutionMode == ExecutionShared {
		return s, reject("challenge already has a partner")
	}
	target, err := resolveTarget(s, cur, CardPartner, a.TargetID)
	if err != nil {
		return s, err
	}
	if sameIndex(index(target), s.Challenge.CurrentExecutorIndex) {
		return s, reject("the executor cannot partner themselves")
	}

	next := s.Clone()
	if err := consume(&next, cur, CardPartner); err != nil {
		return s, err
	}
	next.Challenge.PartnerIndex = index(target)
	next.Challenge.ExecutionMode = ExecutionShared
	next.Challenge.PartnerCompleted = false
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.GameMessage = message(MsgPartnerLinked, "initiatorName", s.Players[cur].Name, "partnerName", s.Players[target].Name)
	return next, nil
}
