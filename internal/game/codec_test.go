package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Action
	}{
		{"no payload", `{"type":"START_GAME"}`, StartGame{}},
		{"null payload", `{"type":"NEXT_PLAYER","payload":null}`, NextPlayer{}},
		{"request", `{"type":"REQUEST_CHALLENGE","payload":{"challengeType":"dare"}}`, RequestChallenge{Type: ChallengeDare}},
		{"receive", `{"type":"RECEIVE_CHALLENGE","payload":{"requestId":3,"challengeType":"truth","text":"why?"}}`,
			ReceiveChallenge{RequestID: 3, Type: ChallengeTruth, Text: "why?"}},
		{"king", `{"type":"SET_CUSTOM_CHALLENGE","payload":{"targetPlayerId":"p2","challengeType":"dare","challengeText":"sing"}}`,
			SetCustomChallenge{TargetPlayerID: "p2", Type: ChallengeDare, Text: "sing"}},
		{"steal", `{"type":"ATTEMPT_STEAL","payload":{"targetId":"p3"}}`, AttemptSteal{TargetID: "p3"}},
		{"add player", `{"type":"ADD_PLAYER","payload":{"player":{"id":"x","name":"Ana"}}}`,
			AddPlayer{Player: Player{ID: "x", Name: "Ana"}}},
		{"message", `{"type":"SET_GAME_MESSAGE","payload":{"message":{"key":"k","options":{"name":"Ana"}}}}`,
			SetGameMessage{Message: &GameMessage{Key: "k", Options: map[string]string{"name": "Ana"}}}},
		{"clear message", `{"type":"SET_GAME_MESSAGE","payload":{"message":null}}`, SetGameMessage{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAction([]byte(tt.json))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeActionErrors(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"FLIP_TABLE"}`))
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = DecodeAction([]byte(`{"type":""}`))
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = DecodeAction([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeAction([]byte(`{"type":"USE_CARD","payload":{"card":7}}`))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownAction)
}

func TestEncodeActionRoundTrip(t *testing.T) {
	actions := []Action{
		UseCard{Card: CardMirror},
		ApplyMirrorEffect{TargetID: "p2"},
		ChooseBattleMove{Move: MoveScissors},
		EndBattle{},
		ResetGame{},
	}
	for _, a := range actions {
		data, err := EncodeAction(a)
		require.NoError(t, err)
		got, err := DecodeAction(data)
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
}

func TestEveryKindDecodes(t *testing.T) {
	for kind := range decoders {
		a, err := Envelope{Type: kind}.Action()
		require.NoError(t, err, kind)
		assert.Equal(t, kind, a.Kind())
	}
}
