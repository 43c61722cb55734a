package game

import (
	"strconv"

	"github.com/truthortrap/trap-server-go/internal/game/rules"
)

// TransitionEvents describes an accepted transition as bus events. The first event is
// always EventStateChanged.
func TransitionEvents(before, after State, a Action) []rules.Event {
	kind := string(a.Kind())
	actor := ""
	if p, ok := before.CurrentPlayer(); ok {
		actor = p.ID
	}
	events := []rules.Event{rules.NewEvent(rules.EventStateChanged, kind, actor)}
	add := func(t rules.EventType, fill func(*rules.Event)) {
		ev := rules.NewEvent(t, kind, actor)
		if fill != nil {
			fill(&ev)
		}
		events = append(events, ev)
	}

	switch act := a.(type) {
	case StartGame:
		add(rules.EventGameStarted, func(ev *rules.Event) {
			ev.Metadata["players"] = strconv.Itoa(len(after.Players))
		})
	case ResetGame:
		add(rules.EventGameReset, nil)
	case NextPlayer:
		add(rules.EventPlayerPicked, func(ev *rules.Event) {
			if p, ok := after.CurrentPlayer(); ok {
				ev.PlayerID = p.ID
				ev.Metadata["consecutiveTurns"] = strconv.Itoa(p.ConsecutiveTurns)
			}
			ev.Metadata["forcedDare"] = strconv.FormatBool(after.IsForcedDare)
		})
	case RequestChallenge:
		add(rules.EventChallengeRequested, func(ev *rules.Event) {
			ev.Data = string(act.Type)
			ev.Metadata["requestId"] = strconv.FormatUint(after.Challenge.RequestID, 10)
		})
	case ReceiveChallenge:
		add(rules.EventChallengeReceived, func(ev *rules.Event) { ev.Data = string(after.Challenge.Type) })
	case ChallengeFail:
		add(rules.EventChallengeFailed, nil)
	case UseCard:
		if countCards(before) != countCards(after) {
			add(rules.EventCardUsed, func(ev *rules.Event) { ev.Card = string(act.Card) })
		}
	case SetCustomChallenge:
		add(rules.EventCardUsed, func(ev *rules.Event) {
			ev.Card = string(CardKing)
			ev.TargetID = act.TargetPlayerID
		})
	case ApplyMirrorEffect:
		if countCards(before) != countCards(after) {
			add(rules.EventCardUsed, func(ev *rules.Event) {
				ev.Card = string(CardMirror)
				ev.TargetID = act.TargetID
			})
		}
	case ApplyPartnerEffect:
		add(rules.EventCardUsed, func(ev *rules.Event) {
			ev.Card = string(CardPartner)
			ev.TargetID = act.TargetID
		})
	case StartBattle:
		add(rules.EventBattleStarted, func(ev *rules.Event) { ev.TargetID = act.OpponentID })
	case RevealBattle:
		add(rules.EventBattleResolved, func(ev *rules.Event) {
			if after.Battle != nil {
				ev.Data = string(after.Battle.Outcome)
			}
		})
	case AttemptSteal:
		add(rules.EventStealAttempted, func(ev *rules.Event) {
			ev.TargetID = act.TargetID
			ev.Data = strconv.FormatBool(after.GameMessage != nil && after.GameMessage.Key == MsgStealSuccess)
			if after.GameMessage != nil {
				ev.Metadata["outcome"] = after.GameMessage.Key
			}
		})
	}

	if before.Turn == TurnActive && (after.Turn == TurnPicking || after.Turn == TurnAwaitingAward) {
		add(rules.EventTurnCompleted, nil)
	}
	if after.Turn == TurnPicking && before.Turn != TurnPicking {
		add(rules.EventPickingStarted, nil)
	}
	if after.LastCardAwarded != nil && before.LastCardAwarded == nil {
		add(rules.EventCardAwarded, func(ev *rules.Event) {
			ev.Card = string(after.LastCardAwarded.Card)
			ev.Data = after.LastCardAwarded.PlayerName
		})
	}
	return events
}

func countCards(s State) int {
	n := 0
	for _, p := range s.Players {
		n += len(p.Cards)
	}
	return n
}
