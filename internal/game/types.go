package game

import "slices"

// Card is a special card a player can hold. Players hold cards as a multiset.
type Card string

const (
	CardImmunity  Card = "IMMUNITY"
	CardIntensify Card = "INTENSIFY"
	CardReverse   Card = "REVERSE"
	CardBattle    Card = "BATTLE"
	CardSteal     Card = "STEAL"
	CardKing      Card = "KING"
	CardMirror    Card = "MIRROR"
	CardPartner   Card = "PARTNER"
)

// AllCards lists every card kind in display order.
var AllCards = []Card{
	CardImmunity, CardIntensify, CardReverse, CardBattle,
	CardSteal, CardKing, CardMirror, CardPartner,
}

// Valid reports whether c is a known card.
func (c Card) Valid() bool {
	return slices.Contains(AllCards, c)
}

// Difficulty selects how hard generated challenges are.
type Difficulty string

const (
	DifficultySimple  Difficulty = "simple"
	DifficultyNormal  Difficulty = "normal"
	DifficultyExtreme Difficulty = "extreme"
)

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultySimple, DifficultyNormal, DifficultyExtreme:
		return true
	}
	return false
}

// Escalate returns the next harder difficulty. Extreme stays extreme.
func (d Difficulty) Escalate() Difficulty {
	switch d {
	case DifficultySimple:
		return DifficultyNormal
	default:
		return DifficultyExtreme
	}
}

// ChallengeType is Truth or Dare. The zero value means no challenge chosen yet.
type ChallengeType string

const (
	ChallengeNone  ChallengeType = ""
	ChallengeTruth ChallengeType = "truth"
	ChallengeDare  ChallengeType = "dare"
)

// Valid reports whether t is Truth or Dare.
func (t ChallengeType) Valid() bool {
	return t == ChallengeTruth || t == ChallengeDare
}

// Screen is the top-level screen marker persisted with the state.
type Screen string

const (
	ScreenSetup Screen = "setup"
	ScreenGame  Screen = "game"
)

// ExecutionMode says whether a challenge is performed alone or with a partner.
type ExecutionMode string

const (
	ExecutionSolo   ExecutionMode = "solo"
	ExecutionShared ExecutionMode = "shared"
)

// Player is one participant sharing the device.
type Player struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Avatar           string `json:"avatar"`
	Cards            []Card `json:"cards"`
	DareStreak       int    `json:"dareStreak"`
	ConsecutiveTurns int    `json:"consecutiveTurns"`
}

// CountCard returns how many copies of c the player holds.
func (p Player) CountCard(c Card) int {
	n := 0
	for _, held := range p.Cards {
		if held == c {
			n++
		}
	}
	return n
}

// HasCard reports whether the player holds at least one c.
func (p Player) HasCard(c Card) bool {
	return slices.Contains(p.Cards, c)
}

func (p Player) clone() Player {
	p.Cards = slices.Clone(p.Cards)
	if p.Cards == nil {
		p.Cards = []Card{}
	}
	return p
}

// withoutCard returns a copy holding one fewer c. ok is false if c is absent.
func (p Player) withoutCard(c Card) (Player, bool) {
	idx := slices.Index(p.Cards, c)
	if idx < 0 {
		return p, false
	}
	out := p.clone()
	out.Cards = slices.Delete(out.Cards, idx, idx+1)
	return out, true
}

// withCard returns a copy holding one more c.
func (p Player) withCard(c Card) Player {
	out := p.clone()
	out.Cards = append(out.Cards, c)
	return out
}

// Challenge is the prompt assigned for the current turn.
type Challenge struct {
	Phase                 ChallengePhase `json:"phase"`
	Type                  ChallengeType  `json:"type"`
	Text                  string         `json:"text"`
	OriginalExecutorIndex *int           `json:"originalExecutorIndex"`
	CurrentExecutorIndex  *int           `json:"currentExecutorIndex"`
	PartnerIndex          *int           `json:"partnerIndex"`
	ExecutionMode         ExecutionMode  `json:"executionMode"`
	ExecutorCompleted     bool           `json:"executorCompleted"`
	PartnerCompleted      bool           `json:"partnerCompleted"`
	// RequestID identifies the in-flight lookup; responses carrying another id are stale.
	RequestID uint64 `json:"requestId"`
}

func emptyChallenge() Challenge {
	return Challenge{Phase: ChallengeIdle, ExecutionMode: ExecutionSolo}
}

func (c Challenge) clone() Challenge {
	c.OriginalExecutorIndex = cloneIndex(c.OriginalExecutorIndex)
	c.CurrentExecutorIndex = cloneIndex(c.CurrentExecutorIndex)
	c.PartnerIndex = cloneIndex(c.PartnerIndex)
	return c
}

// GameMessage is a transient display annotation keyed for localization.
type GameMessage struct {
	Key     string            `json:"key"`
	Options map[string]string `json:"options,omitempty"`
}

func (m *GameMessage) clone() *GameMessage {
	if m == nil {
		return nil
	}
	out := &GameMessage{Key: m.Key}
	if m.Options != nil {
		out.Options = make(map[string]string, len(m.Options))
		for k, v := range m.Options {
			out.Options[k] = v
		}
	}
	return out
}

func message(key string, kv ...string) *GameMessage {
	msg := &GameMessage{Key: key}
	if len(kv) > 0 {
		msg.Options = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			msg.Options[kv[i]] = kv[i+1]
		}
	}
	return msg
}

// CardAward announces a card dropped at the end of a turn.
type CardAward struct {
	PlayerName string `json:"playerName"`
	Card       Card   `json:"card"`
}

// State is the whole game. Values are treated as immutable: the reducer returns a
// fresh State and never writes through slices or pointers of its input.
type State struct {
	Players             []Player   `json:"players"`
	Difficulty          Difficulty `json:"difficulty"`
	Language            Language   `json:"language"`
	Screen              Screen     `json:"currentScreen"`
	Turn                TurnPhase  `json:"turnPhase"`
	CurrentPlayerIndex  *int       `json:"currentPlayerIndex"`
	PreviousPlayerIndex *int       `json:"previousPlayerIndex"`
	Challenge           Challenge  `json:"currentChallenge"`
	Dialog              Dialog     `json:"dialog"`
	// DialogReturn is the dialog a sub-dialog returns to when cancelled.
	DialogReturn               Dialog       `json:"dialogReturn"`
	IsForcedDare               bool         `json:"isForcedDare"`
	IsStealFailure             bool         `json:"isStealFailure"`
	IsNextChallengeIntensified bool         `json:"isNextChallengeIntensified"`
	GameMessage                *GameMessage `json:"gameMessage"`
	Battle                     *Battle      `json:"battle"`
	LastCardAwarded            *CardAward   `json:"lastCardAwarded"`
	// ChallengeSeq is the last request id handed out.
	ChallengeSeq uint64 `json:"challengeSeq"`
}

// Initial returns the default state of a fresh install.
func Initial() State {
	return State{
		Players:      []Player{},
		Difficulty:   DifficultyNormal,
		Language:     LanguageCN,
		Screen:       ScreenSetup,
		Turn:         TurnSetup,
		Challenge:    emptyChallenge(),
		Dialog:       DialogNone,
		DialogReturn: DialogNone,
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Players = make([]Player, len(s.Players))
	for i, p := range s.Players {
		out.Players[i] = p.clone()
	}
	out.CurrentPlayerIndex = cloneIndex(s.CurrentPlayerIndex)
	out.PreviousPlayerIndex = cloneIndex(s.PreviousPlayerIndex)
	out.Challenge = s.Challenge.clone()
	out.GameMessage = s.GameMessage.clone()
	out.Battle = s.Battle.clone()
	if s.LastCardAwarded != nil {
		award := *s.LastCardAwarded
		out.LastCardAwarded = &award
	}
	return out
}

// PlayerIndex returns the index of the player with id, or -1.
func (s State) PlayerIndex(id string) int {
	return slices.IndexFunc(s.Players, func(p Player) bool { return p.ID == id })
}

// PlayerAt returns the player at the optional index.
func (s State) PlayerAt(idx *int) (Player, bool) {
	if idx == nil || *idx < 0 || *idx >= len(s.Players) {
		return Player{}, false
	}
	return s.Players[*idx], true
}

func index(i int) *int {
	return &i
}

func cloneIndex(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

func sameIndex(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
