package game

import (
	"fmt"

	"github.com/truthortrap/trap-server-go/internal/game/targeting"
)

// tableView exposes a State to the targeting validator.
type tableView struct {
	s State
}

func (v tableView) PlayersForTarget() []targeting.TargetPlayerInfo {
	partner := -1
	if v.s.Challenge.ExecutionMode == ExecutionShared && v.s.Challenge.PartnerIndex != nil {
		partner = *v.s.Challenge.PartnerIndex
	}
	out := make([]targeting.TargetPlayerInfo, len(v.s.Players))
	for i, p := range v.s.Players {
		cards := make([]string, len(p.Cards))
		for j, c := range p.Cards {
			cards[j] = string(c)
		}
		out[i] = targeting.TargetPlayerInfo{
			PlayerID:  p.ID,
			Name:      p.Name,
			Cards:     cards,
			IsPartner: i == partner,
		}
	}
	return out
}

func requirement(card Card) (targeting.TargetRequirement, error) {
	req, ok := targeting.RequirementFor(string(card))
	if !ok {
		return targeting.TargetRequirement{}, fmt.Errorf("%w: %s", targeting.ErrUnknownCard, card)
	}
	return req, nil
}

// Targets lists the players the current player may select for card.
func (s State) Targets(card Card) ([]Player, error) {
	actor, ok := s.CurrentPlayer()
	if !ok {
		return nil, fmt.Errorf("no current player")
	}
	req, err := requirement(card)
	if err != nil {
		return nil, err
	}
	infos, err := targeting.NewTargetValidator(tableView{s}).Eligible(actor.ID, req)
	if err != nil {
		return nil, err
	}
	out := make([]Player, 0, len(infos))
	for _, info := range infos {
		out = append(out, s.Players[s.PlayerIndex(info.PlayerID)].clone())
	}
	return out, nil
}

// resolveTarget validates a confirmed target and returns its seat.
func resolveTarget(s State, actor int, card Card, targetID string) (int, error) {
	req, err := requirement(card)
	if err != nil {
		return -1, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	sel := &targeting.TargetSelection{
		ActorID:     s.Players[actor].ID,
		TargetID:    targetID,
		Requirement: req,
	}
	info, err := targeting.NewTargetValidator(tableView{s}).ValidateTargetSelection(sel)
	if err != nil {
		return -1, fmt.Errorf("%w: invalid %s target: %w", ErrRejected, card, err)
	}
	return s.PlayerIndex(info.PlayerID), nil
}
