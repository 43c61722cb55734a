package game

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when decoding an action kind outside the closed set.
var ErrUnknownAction = errors.New("unknown action")

// Envelope is the wire form of an action: {"type": "...", "payload": {...}}.
type Envelope struct {
	Type    ActionKind      `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type decoder func(json.RawMessage) (Action, error)

func decodeAs[T Action](raw json.RawMessage) (Action, error) {
	var action T
	if len(raw) == 0 || string(raw) == "null" {
		return action, nil
	}
	if err := json.Unmarshal(raw, &action); err != nil {
		return nil, fmt.Errorf("failed to decode %s payload: %w", action.Kind(), err)
	}
	return action, nil
}

var decoders = map[ActionKind]decoder{
	KindAddPlayer:                decodeAs[AddPlayer],
	KindRemovePlayer:             decodeAs[RemovePlayer],
	KindUpdatePlayerName:         decodeAs[UpdatePlayerName],
	KindUpdatePlayerAvatar:       decodeAs[UpdatePlayerAvatar],
	KindSetLanguage:              decodeAs[SetLanguage],
	KindSetDifficulty:            decodeAs[SetDifficulty],
	KindStartGame:                decodeAs[StartGame],
	KindStartPlayerPicking:       decodeAs[StartPlayerPicking],
	KindNextPlayer:               decodeAs[NextPlayer],
	KindRequestChallenge:         decodeAs[RequestChallenge],
	KindReceiveChallenge:         decodeAs[ReceiveChallenge],
	KindChallengeFail:            decodeAs[ChallengeFail],
	KindCompleteTurn:             decodeAs[CompleteTurn],
	KindCompletePartnerTurn:      decodeAs[CompletePartnerTurn],
	KindAddCardToPlayer:          decodeAs[AddCardToPlayer],
	KindRemoveCardFromPlayer:     decodeAs[RemoveCardFromPlayer],
	KindOpenCardModal:            decodeAs[OpenCardModal],
	KindCloseCardModal:           decodeAs[CloseCardModal],
	KindCloseSubDialog:           decodeAs[CloseSubDialog],
	KindUseCard:                  decodeAs[UseCard],
	KindSetCustomChallenge:       decodeAs[SetCustomChallenge],
	KindStartBattle:              decodeAs[StartBattle],
	KindChooseBattleMove:         decodeAs[ChooseBattleMove],
	KindRevealBattle:             decodeAs[RevealBattle],
	KindReplayBattle:             decodeAs[ReplayBattle],
	KindEndBattle:                decodeAs[EndBattle],
	KindAttemptSteal:             decodeAs[AttemptSteal],
	KindOpenMirrorTargetSelect:   decodeAs[OpenMirrorTargetSelect],
	KindCloseMirrorTargetSelect:  decodeAs[CloseMirrorTargetSelect],
	KindApplyMirrorEffect:        decodeAs[ApplyMirrorEffect],
	KindOpenPartnerTargetSelect:  decodeAs[OpenPartnerTargetSelect],
	KindClosePartnerTargetSelect: decodeAs[ClosePartnerTargetSelect],
	KindApplyPartnerEffect:       decodeAs[ApplyPartnerEffect],
	KindResetGame:                decodeAs[ResetGame],
	KindClearCardAward:           decodeAs[ClearCardAward],
	KindSetGameMessage:           decodeAs[SetGameMessage],
}

// DecodeAction parses an envelope into a concrete action.
func DecodeAction(data []byte) (Action, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode action envelope: %w", err)
	}
	return env.Action()
}

// Action resolves the envelope into a concrete action.
func (e Envelope) Action() (Action, error) {
	dec, ok := decoders[e.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, e.Type)
	}
	return dec(e.Payload)
}

// EncodeAction wraps an action in its envelope.
func EncodeAction(a Action) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", a.Kind(), err)
	}
	return json.Marshal(Envelope{Type: a.Kind(), Payload: payload})
}
