package game

// ActionKind names an action on the wire and in logs.
type ActionKind string

const (
	KindAddPlayer                ActionKind = "ADD_PLAYER"
	KindRemovePlayer             ActionKind = "REMOVE_PLAYER"
	KindUpdatePlayerName         ActionKind = "UPDATE_PLAYER_NAME"
	KindUpdatePlayerAvatar       ActionKind = "UPDATE_PLAYER_AVATAR"
	KindSetLanguage              ActionKind = "SET_LANGUAGE"
	KindSetDifficulty            ActionKind = "SET_DIFFICULTY"
	KindStartGame                ActionKind = "START_GAME"
	KindStartPlayerPicking       ActionKind = "START_PLAYER_PICKING"
	KindNextPlayer               ActionKind = "NEXT_PLAYER"
	KindRequestChallenge         ActionKind = "REQUEST_CHALLENGE"
	KindReceiveChallenge         ActionKind = "RECEIVE_CHALLENGE"
	KindChallengeFail            ActionKind = "CHALLENGE_FAIL"
	KindCompleteTurn             ActionKind = "COMPLETE_TURN"
	KindCompletePartnerTurn      ActionKind = "COMPLETE_PARTNER_TURN"
	KindAddCardToPlayer          ActionKind = "ADD_CARD_TO_PLAYER"
	KindRemoveCardFromPlayer     ActionKind = "REMOVE_CARD_FROM_PLAYER"
	KindOpenCardModal            ActionKind = "OPEN_CARD_MODAL"
	KindCloseCardModal           ActionKind = "CLOSE_CARD_MODAL"
	KindCloseSubDialog           ActionKind = "CLOSE_SUB_DIALOG"
	KindUseCard                  ActionKind = "USE_CARD"
	KindSetCustomChallenge       ActionKind = "SET_CUSTOM_CHALLENGE"
	KindStartBattle              ActionKind = "START_BATTLE"
	KindChooseBattleMove         ActionKind = "CHOOSE_BATTLE_MOVE"
	KindRevealBattle             ActionKind = "REVEAL_BATTLE"
	KindReplayBattle             ActionKind = "REPLAY_BATTLE"
	KindEndBattle                ActionKind = "END_BATTLE"
	KindAttemptSteal             ActionKind = "ATTEMPT_STEAL"
	KindOpenMirrorTargetSelect   ActionKind = "OPEN_MIRROR_TARGET_SELECT"
	KindCloseMirrorTargetSelect  ActionKind = "CLOSE_MIRROR_TARGET_SELECT"
	KindApplyMirrorEffect        ActionKind = "APPLY_MIRROR_EFFECT"
	KindOpenPartnerTargetSelect  ActionKind = "OPEN_PARTNER_TARGET_SELECT"
	KindClosePartnerTargetSelect ActionKind = "CLOSE_PARTNER_TARGET_SELECT"
	KindApplyPartnerEffect       ActionKind = "APPLY_PARTNER_EFFECT"
	KindResetGame                ActionKind = "RESET_GAME"
	KindClearCardAward           ActionKind = "CLEAR_CARD_AWARD"
	KindSetGameMessage           ActionKind = "SET_GAME_MESSAGE"
)

// Action is one member of the closed action set accepted by the reducer.
type Action interface {
	Kind() ActionKind
}

// Setup actions

type AddPlayer struct {
	Player Player `json:"player"`
}

type RemovePlayer struct {
	PlayerID string `json:"playerId"`
}

type UpdatePlayerName struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type UpdatePlayerAvatar struct {
	PlayerID string `json:"playerId"`
	Avatar   string `json:"avatar"`
}

type SetLanguage struct {
	Language Language `json:"language"`
}

type SetDifficulty struct {
	Difficulty Difficulty `json:"difficulty"`
}

type StartGame struct{}

// Turn actions

// StartPlayerPicking closes the current turn, rolling the end-of-turn card drop.
type StartPlayerPicking struct{}

// NextPlayer finalizes the picker with a uniformly random seat.
type NextPlayer struct{}

type RequestChallenge struct {
	Type ChallengeType `json:"challengeType"`
}

// ReceiveChallenge delivers lookup text for the request identified by RequestID.
type ReceiveChallenge struct {
	RequestID uint64        `json:"requestId"`
	Type      ChallengeType `json:"challengeType"`
	Text      string        `json:"text"`
}

type ChallengeFail struct {
	RequestID uint64 `json:"requestId"`
}

// CompleteTurn records the executor's completion; in solo mode it closes the turn.
type CompleteTurn struct{}

// CompletePartnerTurn records the partner's completion of a shared challenge.
type CompletePartnerTurn struct{}

// Card actions

type AddCardToPlayer struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

type RemoveCardFromPlayer struct {
	PlayerID string `json:"playerId"`
	Card     Card   `json:"card"`
}

type OpenCardModal struct{}

type CloseCardModal struct{}

// CloseSubDialog cancels any target-selection dialog.
type CloseSubDialog struct{}

// UseCard plays a card from the current player's hand. Cards that need a target
// open their selection dialog instead of committing.
type UseCard struct {
	Card Card `json:"card"`
}

// SetCustomChallenge commits a King card.
type SetCustomChallenge struct {
	TargetPlayerID string        `json:"targetPlayerId"`
	Type           ChallengeType `json:"challengeType"`
	Text           string        `json:"challengeText"`
}

type StartBattle struct {
	OpponentID string `json:"opponentId"`
}

type ChooseBattleMove struct {
	Move Move `json:"move"`
}

type RevealBattle struct{}

type ReplayBattle struct{}

// EndBattle applies a decided duel. LoserID is optional; when set it must name the loser.
type EndBattle struct {
	LoserID string `json:"loserId,omitempty"`
}

type AttemptSteal struct {
	TargetID string `json:"targetId"`
}

type OpenMirrorTargetSelect struct{}

type CloseMirrorTargetSelect struct{}

type ApplyMirrorEffect struct {
	TargetID string `json:"targetId"`
}

type OpenPartnerTargetSelect struct{}

type ClosePartnerTargetSelect struct{}

type ApplyPartnerEffect struct {
	TargetID string `json:"targetId"`
}

// Misc actions

type ResetGame struct{}

type ClearCardAward struct{}

type SetGameMessage struct {
	Message *GameMessage `json:"message"`
}

func (AddPlayer) Kind() ActionKind                { return KindAddPlayer }
func (RemovePlayer) Kind() ActionKind             { return KindRemovePlayer }
func (UpdatePlayerName) Kind() ActionKind         { return KindUpdatePlayerName }
func (UpdatePlayerAvatar) Kind() ActionKind       { return KindUpdatePlayerAvatar }
func (SetLanguage) Kind() ActionKind              { return KindSetLanguage }
func (SetDifficulty) Kind() ActionKind            { return KindSetDifficulty }
func (StartGame) Kind() ActionKind                { return KindStartGame }
func (StartPlayerPicking) Kind() ActionKind       { return KindStartPlayerPicking }
func (NextPlayer) Kind() ActionKind               { return KindNextPlayer }
func (RequestChallenge) Kind() ActionKind         { return KindRequestChallenge }
func (ReceiveChallenge) Kind() ActionKind         { return KindReceiveChallenge }
func (ChallengeFail) Kind() ActionKind            { return KindChallengeFail }
func (CompleteTurn) Kind() ActionKind             { return KindCompleteTurn }
func (CompletePartnerTurn) Kind() ActionKind      { return KindCompletePartnerTurn }
func (AddCardToPlayer) Kind() ActionKind          { return KindAddCardToPlayer }
func (RemoveCardFromPlayer) Kind() ActionKind     { return KindRemoveCardFromPlayer }
func (OpenCardModal) Kind() ActionKind            { return KindOpenCardModal }
func (CloseCardModal) Kind() ActionKind           { return KindCloseCardModal }
func (CloseSubDialog) Kind() ActionKind           { return KindCloseSubDialog }
func (UseCard) Kind() ActionKind                  { return KindUseCard }
func (SetCustomChallenge) Kind() ActionKind       { return KindSetCustomChallenge }
func (StartBattle) Kind() ActionKind              { return KindStartBattle }
func (ChooseBattleMove) Kind() ActionKind         { return KindChooseBattleMove }
func (RevealBattle) Kind() ActionKind             { return KindRevealBattle }
func (ReplayBattle) Kind() ActionKind             { return KindReplayBattle }
func (EndBattle) Kind() ActionKind                { return KindEndBattle }
func (AttemptSteal) Kind() ActionKind             { return KindAttemptSteal }
func (OpenMirrorTargetSelect) Kind() ActionKind   { return KindOpenMirrorTargetSelect }
func (CloseMirrorTargetSelect) Kind() ActionKind  { return KindCloseMirrorTargetSelect }
func (ApplyMirrorEffect) Kind() ActionKind        { return KindApplyMirrorEffect }
func (OpenPartnerTargetSelect) Kind() ActionKind  { return KindOpenPartnerTargetSelect }
func (ClosePartnerTargetSelect) Kind() ActionKind { return KindClosePartnerTargetSelect }
func (ApplyPartnerEffect) Kind() ActionKind       { return KindApplyPartnerEffect }
func (ResetGame) Kind() ActionKind                { return KindResetGame }
func (ClearCardAward) Kind() ActionKind           { return KindClearCardAward }
func (SetGameMessage) Kind() ActionKind           { return KindSetGameMessage }
