package targeting

import (
	"fmt"
	"slices"
)

// TargetGameStateAccessor provides the read-only view of the table needed for targeting.
type TargetGameStateAccessor interface {
	// PlayersForTarget returns every seated player in seat order
	PlayersForTarget() []TargetPlayerInfo
}

// TargetPlayerInfo provides information about a player for target validation.
type TargetPlayerInfo struct {
	PlayerID  string
	Name      string
	Cards     []string
	IsPartner bool
}

// Holds reports whether the player holds at least one copy of card.
func (p TargetPlayerInfo) Holds(card string) bool {
	return slices.Contains(p.Cards, card)
}

// TargetValidator validates that selected targets are legal.
type TargetValidator struct {
	gameState TargetGameStateAccessor
}

// NewTargetValidator creates a new target validator.
func NewTargetValidator(gameState TargetGameStateAccessor) *TargetValidator {
	return &TargetValidator{
		gameState: gameState,
	}
}

// CheckTable reports ErrTooFewPlayers when the table is below the card's minimum size.
func (tv *TargetValidator) CheckTable(requirement TargetRequirement) error {
	if tv == nil || tv.gameState == nil {
		return fmt.Errorf("target validator not initialized")
	}
	if n := len(tv.gameState.PlayersForTarget()); n < requirement.MinPlayers {
		return fmt.Errorf("%w: %s needs %d, table has %d", ErrTooFewPlayers, requirement.Card, requirement.MinPlayers, n)
	}
	return nil
}

// ValidateTargetSelection checks a confirmed selection against the current table.
func (tv *TargetValidator) ValidateTargetSelection(selection *TargetSelection) (TargetPlayerInfo, error) {
	if tv == nil || tv.gameState == nil {
		return TargetPlayerInfo{}, fmt.Errorf("target validator not initialized")
	}
	if err := selection.Validate(); err != nil {
		return TargetPlayerInfo{}, err
	}

	players := tv.gameState.PlayersForTarget()
	idx := slices.IndexFunc(players, func(p TargetPlayerInfo) bool { return p.PlayerID == selection.TargetID })
	if idx < 0 {
		return TargetPlayerInfo{}, fmt.Errorf("%w: %s", ErrTargetNotFound, selection.TargetID)
	}
	target := players[idx]
	if selection.Requirement.ExcludePartner && target.IsPartner {
		return TargetPlayerInfo{}, ErrPartnerTarget
	}
	return target, nil
}

// Eligible lists the players the actor may currently select for a card.
func (tv *TargetValidator) Eligible(actorID string, requirement TargetRequirement) ([]TargetPlayerInfo, error) {
	if err := tv.CheckTable(requirement); err != nil {
		return nil, err
	}

	var out []TargetPlayerInfo
	for _, p := range tv.gameState.PlayersForTarget() {
		if requirement.ExcludeSelf && p.PlayerID == actorID {
			continue
		}
		if requirement.ExcludePartner && p.IsPartner {
			continue
		}
		if requirement.MustHold != "" && !p.Holds(requirement.MustHold) {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoEligibleTargets, requirement.Card)
	}
	return out, nil
}
