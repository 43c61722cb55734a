package game

// TurnPhase tracks where the table is in the turn cycle.
type TurnPhase string

const (
	// TurnSetup: no game running.
	TurnSetup TurnPhase = "setup"
	// TurnPicking: the random picker is choosing the next player.
	TurnPicking TurnPhase = "picking"
	// TurnAwaitingAward: a dropped card is shown and must be acknowledged before picking.
	TurnAwaitingAward TurnPhase = "awaitingAward"
	// TurnActive: a current player holds the turn.
	TurnActive TurnPhase = "active"
)

// ChallengePhase is the lifecycle of the current challenge.
type ChallengePhase string

const (
	ChallengeIdle      ChallengePhase = "none"
	ChallengeRequested ChallengePhase = "requested"
	ChallengeReceived  ChallengePhase = "received"
	ChallengeFailed    ChallengePhase = "failed"
)

// Dialog is the single modal open over the game screen.
type Dialog string

const (
	DialogNone          Dialog = "none"
	DialogCards         Dialog = "cards"
	DialogMirrorTarget  Dialog = "mirrorTarget"
	DialogPartnerTarget Dialog = "partnerTarget"
	DialogKing          Dialog = "king"
	DialogBattleSetup   Dialog = "battleSetup"
	DialogSteal         Dialog = "steal"
)

// isSubDialog reports whether d is a target-selection dialog opened from the card hand.
func (d Dialog) isSubDialog() bool {
	switch d {
	case DialogMirrorTarget, DialogPartnerTarget, DialogKing, DialogBattleSetup, DialogSteal:
		return true
	}
	return false
}

// IsPickingPlayer reports whether the turn picker is running.
func (s State) IsPickingPlayer() bool { return s.Turn == TurnPicking }

// IsCardModalOpen reports whether the card hand is shown.
func (s State) IsCardModalOpen() bool { return s.Dialog == DialogCards }

// IsSelectingMirrorTarget reports whether the Mirror target list is shown.
func (s State) IsSelectingMirrorTarget() bool { return s.Dialog == DialogMirrorTarget }

// IsSelectingPartnerTarget reports whether the Partner target list is shown.
func (s State) IsSelectingPartnerTarget() bool { return s.Dialog == DialogPartnerTarget }

// IsLoading reports whether a challenge lookup is in flight.
func (s State) IsLoading() bool { return s.Challenge.Phase == ChallengeRequested }

// HasActiveChallenge reports whether a challenge has been requested or issued this turn.
func (s State) HasActiveChallenge() bool {
	return s.Challenge.Phase != ChallengeIdle || s.Challenge.Text != ""
}

// CurrentPlayer returns the player holding the turn.
func (s State) CurrentPlayer() (Player, bool) {
	return s.PlayerAt(s.CurrentPlayerIndex)
}

// CanChooseTruth reports whether Truth is offered to the current player.
func (s State) CanChooseTruth() bool {
	return !s.IsForcedDare && !s.IsStealFailure
}

// Flags mirrors the boolean surface presentation layers expect.
type Flags struct {
	IsPickingPlayer          bool `json:"isPickingPlayer"`
	IsCardModalOpen          bool `json:"isCardModalOpen"`
	IsSelectingMirrorTarget  bool `json:"isSelectingMirrorTarget"`
	IsSelectingPartnerTarget bool `json:"isSelectingPartnerTarget"`
	IsLoading                bool `json:"isLoading"`
	HasActiveChallenge       bool `json:"hasActiveChallenge"`
	CanChooseTruth           bool `json:"canChooseTruth"`
}

// Flags derives the flag view of s.
func (s State) Flags() Flags {
	return Flags{
		IsPickingPlayer:          s.IsPickingPlayer(),
		IsCardModalOpen:          s.IsCardModalOpen(),
		IsSelectingMirrorTarget:  s.IsSelectingMirrorTarget(),
		IsSelectingPartnerTarget: s.IsSelectingPartnerTarget(),
		IsLoading:                s.IsLoading(),
		HasActiveChallenge:       s.HasActiveChallenge(),
		CanChooseTruth:           s.CanChooseTruth(),
	}
}
