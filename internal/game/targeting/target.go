package targeting

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownCard is returned for cards that never take a target.
	ErrUnknownCard = errors.New("card does not take a target")
	// ErrTargetNotFound is returned when the target id is not seated.
	ErrTargetNotFound = errors.New("target not found")
	// ErrSelfTarget is returned when a player targets themselves.
	ErrSelfTarget = errors.New("cannot target yourself")
	// ErrPartnerTarget is returned when the target is already linked as partner.
	ErrPartnerTarget = errors.New("target is already the partner")
	// ErrTooFewPlayers is returned when the table is too small for the card.
	ErrTooFewPlayers = errors.New("not enough players for this card")
	// ErrNoEligibleTargets is returned when nobody can be selected.
	ErrNoEligibleTargets = errors.New("no eligible targets")
)

// TargetRequirement defines which players a card may target.
type TargetRequirement struct {
	// Card is the card name the requirement belongs to
	Card string
	// ExcludeSelf removes the acting player from the candidates
	ExcludeSelf bool
	// ExcludePartner removes the linked partner from the candidates
	ExcludePartner bool
	// MustHold lists only players holding this card. Applied when listing, not when
	// confirming, so a target that lost the card in the meantime can still be confirmed.
	MustHold string
	// MinPlayers is the minimum table size for the card to work at all
	MinPlayers int
	// Description is a human-readable description of the target requirement
	Description string
}

var requirements = map[string]TargetRequirement{
	"KING": {
		Card:        "KING",
		ExcludeSelf: true,
		Description: "player who must perform your custom challenge",
	},
	"BATTLE": {
		Card:        "BATTLE",
		ExcludeSelf: true,
		Description: "opponent for rock-paper-scissors",
	},
	"STEAL": {
		Card:        "STEAL",
		ExcludeSelf: true,
		MustHold:    "IMMUNITY",
		Description: "player holding an Immunity card",
	},
	"MIRROR": {
		Card:           "MIRROR",
		ExcludeSelf:    true,
		ExcludePartner: true,
		MinPlayers:     3,
		Description:    "player who takes over your challenge",
	},
	"PARTNER": {
		Card:        "PARTNER",
		ExcludeSelf: true,
		Description: "player who performs the challenge with you",
	},
}

// RequirementFor returns the target requirement for a card name.
func RequirementFor(card string) (TargetRequirement, bool) {
	req, ok := requirements[strings.ToUpper(card)]
	return req, ok
}

// TargetSelection is an acting player's chosen target for a card.
type TargetSelection struct {
	// ActorID is the player using the card
	ActorID string
	// TargetID is the selected player
	TargetID string
	// Requirement is the requirement this selection satisfies
	Requirement TargetRequirement
}

// Validate checks the selection without consulting game state.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("target selection is nil")
	}
	if ts.TargetID == "" {
		return fmt.Errorf("%w: empty target id", ErrTargetNotFound)
	}
	if ts.Requirement.ExcludeSelf && ts.TargetID == ts.ActorID {
		return ErrSelfTarget
	}
	return nil
}
