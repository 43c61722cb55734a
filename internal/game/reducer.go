package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/truthortrap/trap-server-go/internal/game/rules"
)

const (
	// DropChance is the probability of a card drop when a completed turn closes.
	DropChance = 0.35
	// StealSuccessChance is the probability that a Steal attempt succeeds.
	StealSuccessChance = 0.75
	// DareStreakReward is the dare streak that earns an Immunity card.
	DareStreakReward = 3
	// MinPlayers is the smallest table a game can start with.
	MinPlayers = 2

	// ChallengeErrorText replaces challenge text when a lookup fails.
	ChallengeErrorText = "geminiError"
)

// Message keys attached to GameMessage.
const (
	MsgImmunityUsed      = "immunityUsed"
	MsgIntensifyUsed     = "intensifyUsed"
	MsgReverseUsed       = "reverseUsed"
	MsgKingUsed          = "kingUsed"
	MsgStealSuccess      = "stealSuccess"
	MsgStealFail         = "stealFail"
	MsgNoOneToStealFrom  = "noOneToStealFrom"
	MsgBattleLoser       = "battleLoser"
	MsgBattleDraw        = "battleDraw"
	MsgDareStreak        = "dareStreak"
	MsgMirrorUsed        = "mirrorUsed"
	MsgMirrorFail1v1     = "mirrorFail1v1"
	MsgPartnerLinked     = "partnerLinked"
	MsgWaitingForPartner = "waitingForPartner"
)

// ErrRejected wraps every precondition violation. A rejected action leaves the state unchanged.
var ErrRejected = errors.New("action rejected")

func reject(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRejected, fmt.Sprintf(format, args...))
}

// DropPool is the weighted pool cards are dropped from at the end of a turn.
func DropPool() *rules.WeightedPool[Card] {
	return rules.NewWeightedPool(
		rules.Weighted[Card]{Item: CardBattle, Weight: 3},
		rules.Weighted[Card]{Item: CardSteal, Weight: 2},
		rules.Weighted[Card]{Item: CardMirror, Weight: 2},
		rules.Weighted[Card]{Item: CardImmunity, Weight: 1},
		rules.Weighted[Card]{Item: CardKing, Weight: 1},
		rules.Weighted[Card]{Item: CardPartner, Weight: 1},
	)
}

// Reducer is the game's transition function. It holds no game state; every random
// decision is drawn from its Source.
type Reducer struct {
	src  rules.Source
	pool *rules.WeightedPool[Card]
}

// NewReducer creates a reducer. A nil source is replaced by a time-seeded one.
func NewReducer(src rules.Source) *Reducer {
	if src == nil {
		src = rules.NewSeeded(uint64(time.Now().UnixNano()))
	}
	return &Reducer{src: src, pool: DropPool()}
}

// Apply returns the state after a. Rejected actions return s unchanged.
func (r *Reducer) Apply(s State, a Action) State {
	next, _ := r.Step(s, a)
	return next
}

// Step is Apply with the rejection reason. On error the returned state is s.
func (r *Reducer) Step(s State, a Action) (State, error) {
	switch act := a.(type) {
	case AddPlayer:
		return r.addPlayer(s, act)
	case RemovePlayer:
		return r.removePlayer(s, act)
	case UpdatePlayerName:
		return r.updatePlayer(s, act.PlayerID, func(p *Player) error {
			name := strings.TrimSpace(act.Name)
			if name == "" {
				return reject("player name is empty")
			}
			p.Name = name
			return nil
		})
	case UpdatePlayerAvatar:
		return r.updatePlayer(s, act.PlayerID, func(p *Player) error {
			p.Avatar = act.Avatar
			return nil
		})
	case SetLanguage:
		if !act.Language.Valid() {
			return s, reject("unsupported language %q", act.Language)
		}
		next := s.Clone()
		next.Language = act.Language
		return next, nil
	case SetDifficulty:
		if !act.Difficulty.Valid() {
			return s, reject("unsupported difficulty %q", act.Difficulty)
		}
		next := s.Clone()
		next.Difficulty = act.Difficulty
		return next, nil
	case StartGame:
		return r.startGame(s)
	case StartPlayerPicking:
		return r.startPicking(s)
	case NextPlayer:
		return r.nextPlayer(s)
	case RequestChallenge:
		return r.requestChallenge(s, act)
	case ReceiveChallenge:
		return r.receiveChallenge(s, act)
	case ChallengeFail:
		return r.challengeFail(s, act)
	case CompleteTurn:
		return r.completeTurn(s)
	case CompletePartnerTurn:
		return r.completePartnerTurn(s)
	case AddCardToPlayer:
		return r.updatePlayer(s, act.PlayerID, func(p *Player) error {
			if !act.Card.Valid() {
				return reject("unknown card %q", act.Card)
			}
			*p = p.withCard(act.Card)
			return nil
		})
	case RemoveCardFromPlayer:
		return r.updatePlayer(s, act.PlayerID, func(p *Player) error {
			out, ok := p.withoutCard(act.Card)
			if !ok {
				return reject("player does not hold %s", act.Card)
			}
			*p = out
			return nil
		})
	case OpenCardModal:
		return r.openCardModal(s)
	case CloseCardModal:
		if s.Dialog != DialogCards {
			return s, reject("card modal is not open")
		}
		next := s.Clone()
		next.Dialog, next.DialogReturn = DialogNone, DialogNone
		return next, nil
	case CloseSubDialog:
		return r.closeSubDialog(s, "")
	case UseCard:
		return r.useCard(s, act.Card)
	case SetCustomChallenge:
		return r.setCustomChallenge(s, act)
	case StartBattle:
		return r.startBattle(s, act)
	case ChooseBattleMove:
		return r.chooseBattleMove(s, act)
	case RevealBattle:
		return r.revealBattle(s)
	case ReplayBattle:
		return r.replayBattle(s)
	case EndBattle:
		return r.endBattle(s, act)
	case AttemptSteal:
		return r.attemptSteal(s, act)
	case OpenMirrorTargetSelect:
		return r.useCard(s, CardMirror)
	case CloseMirrorTargetSelect:
		return r.closeSubDialog(s, DialogMirrorTarget)
	case ApplyMirrorEffect:
		return r.applyMirror(s, act)
	case OpenPartnerTargetSelect:
		return r.useCard(s, CardPartner)
	case ClosePartnerTargetSelect:
		return r.closeSubDialog(s, DialogPartnerTarget)
	case ApplyPartnerEffect:
		return r.applyPartner(s, act)
	case ResetGame:
		next := Initial()
		next.Language = s.Language
		return next, nil
	case ClearCardAward:
		if s.Screen != ScreenGame || s.Turn != TurnAwaitingAward {
			return s, reject("no card award pending")
		}
		next := s.Clone()
		next.LastCardAwarded = nil
		next.Turn = TurnPicking
		return next, nil
	case SetGameMessage:
		next := s.Clone()
		next.GameMessage = act.Message.clone()
		return next, nil
	case nil:
		return s, reject("nil action")
	default:
		return s, reject("unsupported action %T", a)
	}
}

func (r *Reducer) addPlayer(s State, a AddPlayer) (State, error) {
	if s.Screen != ScreenSetup {
		return s, reject("players can only be added during setup")
	}
	p := a.Player.clone()
	p.Name = strings.TrimSpace(p.Name)
	if p.ID == "" || p.Name == "" {
		return s, reject("player needs an id and a name")
	}
	if s.PlayerIndex(p.ID) >= 0 {
		return s, reject("player %s already seated", p.ID)
	}
	p.DareStreak = max(p.DareStreak, 0)
	p.ConsecutiveTurns = max(p.ConsecutiveTurns, 0)

	next := s.Clone()
	next.Players = append(next.Players, p)
	return next, nil
}

func (r *Reducer) removePlayer(s State, a RemovePlayer) (State, error) {
	if s.Screen != ScreenSetup {
		return s, reject("players can only be removed during setup")
	}
	idx := s.PlayerIndex(a.PlayerID)
	if idx < 0 {
		return s, reject("player %s not found", a.PlayerID)
	}
	next := s.Clone()
	next.Players = append(next.Players[:idx], next.Players[idx+1:]...)
	// seat indices shift, so a resumable turn no longer points anywhere meaningful
	next.CurrentPlayerIndex = nil
	next.PreviousPlayerIndex = nil
	return next, nil
}

func (r *Reducer) updatePlayer(s State, id string, fn func(*Player) error) (State, error) {
	idx := s.PlayerIndex(id)
	if idx < 0 {
		return s, reject("player %s not found", id)
	}
	next := s.Clone()
	if err := fn(&next.Players[idx]); err != nil {
		return s, err
	}
	return next, nil
}

func (r *Reducer) startGame(s State) (State, error) {
	if s.Screen != ScreenSetup {
		return s, reject("game already running")
	}
	if len(s.Players) < MinPlayers {
		return s, reject("need at least %d players, have %d", MinPlayers, len(s.Players))
	}
	next := s.Clone()
	for i := range next.Players {
		next.Players[i].ConsecutiveTurns = 0
	}
	next.Screen = ScreenGame
	next.Turn = TurnPicking
	next.CurrentPlayerIndex = nil
	next.PreviousPlayerIndex = nil
	next.Challenge = emptyChallenge()
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.IsForcedDare = false
	next.IsStealFailure = false
	next.IsNextChallengeIntensified = false
	next.GameMessage = nil
	next.Battle = nil
	next.LastCardAwarded = nil
	return next, nil
}

// actor returns the seat of the current player when in-game card play is possible.
func (r *Reducer) actor(s State) (int, error) {
	if s.Screen != ScreenGame {
		return -1, reject("game not started")
	}
	if s.Turn != TurnActive {
		return -1, reject("no turn in progress (phase %s)", s.Turn)
	}
	if _, ok := s.CurrentPlayer(); !ok {
		return -1, reject("no current player")
	}
	if s.Battle != nil {
		return -1, reject("battle in progress")
	}
	return *s.CurrentPlayerIndex, nil
}

func (r *Reducer) openCardModal(s State) (State, error) {
	if _, err := r.actor(s); err != nil {
		return s, err
	}
	if s.Dialog != DialogNone {
		return s, reject("dialog %s already open", s.Dialog)
	}
	next := s.Clone()
	next.Dialog = DialogCards
	return next, nil
}

// closeSubDialog returns to the dialog open before the sub-dialog. want restricts
// which sub-dialog may be closed; empty closes any.
func (r *Reducer) closeSubDialog(s State, want Dialog) (State, error) {
	if !s.Dialog.isSubDialog() || (want != "" && s.Dialog != want) {
		return s, reject("no matching sub-dialog open (have %s)", s.Dialog)
	}
	next := s.Clone()
	next.Dialog = s.DialogReturn
	if next.Dialog == "" {
		next.Dialog = DialogNone
	}
	next.DialogReturn = DialogNone
	return next, nil
}
