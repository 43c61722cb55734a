package watchers

import (
	"maps"

	"github.com/truthortrap/trap-server-go/internal/game/rules"
)

// Watcher keys.
const (
	KeyChallenges = "challenges"
	KeyCards      = "cards"
	KeyBattles    = "battles"
)

// NewRegistry returns a registry with every table watcher, cleared at each game start.
func NewRegistry() *rules.WatcherRegistry {
	registry := rules.NewWatcherRegistry(rules.EventGameStarted)
	registry.AddWatcher(NewChallengesWatcher())
	registry.AddWatcher(NewCardsWatcher())
	registry.AddWatcher(NewBattlesWatcher())
	return registry
}

// ChallengeCounts is one player's challenge history.
type ChallengeCounts struct {
	Truths   int `json:"truths"`
	Dares    int `json:"dares"`
	Failures int `json:"failures"`
	Turns    int `json:"turns"`
}

// ChallengesWatcher tracks delivered challenges and completed turns per player.
type ChallengesWatcher struct {
	*rules.BaseWatcher
	byPlayer map[string]ChallengeCounts
}

// NewChallengesWatcher creates a new challenges watcher.
func NewChallengesWatcher() *ChallengesWatcher {
	return &ChallengesWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopePlayer, KeyChallenges),
		byPlayer:    make(map[string]ChallengeCounts),
	}
}

// Watch implements rules.Watcher.
func (w *ChallengesWatcher) Watch(event rules.Event) {
	if event.PlayerID == "" {
		return
	}
	c := w.byPlayer[event.PlayerID]
	switch event.Type {
	case rules.EventChallengeReceived:
		switch event.Data {
		case "truth":
			c.Truths++
		case "dare":
			c.Dares++
		}
	case rules.EventChallengeFailed:
		c.Failures++
	case rules.EventTurnCompleted:
		c.Turns++
	default:
		return
	}
	w.byPlayer[event.PlayerID] = c
}

// Reset clears the watcher's state.
func (w *ChallengesWatcher) Reset() {
	w.byPlayer = make(map[string]ChallengeCounts)
}

// Get returns the counts for a player.
func (w *ChallengesWatcher) Get(playerID string) ChallengeCounts {
	return w.byPlayer[playerID]
}

// Stats implements rules.Watcher.
func (w *ChallengesWatcher) Stats() any {
	return maps.Clone(w.byPlayer)
}

// CardStats summarizes card traffic at the table.
type CardStats struct {
	Awarded        map[string]int            `json:"awarded"`
	Used           map[string]map[string]int `json:"used"`
	StealAttempts  int                       `json:"stealAttempts"`
	StealSuccesses int                       `json:"stealSuccesses"`
}

// CardsWatcher tracks awarded cards, played cards per player, and steal rolls.
type CardsWatcher struct {
	*rules.BaseWatcher
	stats CardStats
}

// NewCardsWatcher creates a new cards watcher.
func NewCardsWatcher() *CardsWatcher {
	w := &CardsWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, KeyCards)}
	w.Reset()
	return w
}

// Watch implements rules.Watcher.
func (w *CardsWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventCardAwarded:
		if event.Card != "" {
			w.stats.Awarded[event.Card]++
		}
	case rules.EventCardUsed:
		if event.PlayerID == "" || event.Card == "" {
			return
		}
		used := w.stats.Used[event.PlayerID]
		if used == nil {
			used = make(map[string]int)
			w.stats.Used[event.PlayerID] = used
		}
		used[event.Card]++
	case rules.EventStealAttempted:
		w.stats.StealAttempts++
		if event.Data == "true" {
			w.stats.StealSuccesses++
		}
	}
}

// Reset clears the watcher's state.
func (w *CardsWatcher) Reset() {
	w.stats = CardStats{
		Awarded: make(map[string]int),
		Used:    make(map[string]map[string]int),
	}
}

// Stats implements rules.Watcher.
func (w *CardsWatcher) Stats() any {
	out := CardStats{
		Awarded:        maps.Clone(w.stats.Awarded),
		Used:           make(map[string]map[string]int, len(w.stats.Used)),
		StealAttempts:  w.stats.StealAttempts,
		StealSuccesses: w.stats.StealSuccesses,
	}
	for id, used := range w.stats.Used {
		out.Used[id] = maps.Clone(used)
	}
	return out
}

// BattleStats counts duels by outcome.
type BattleStats struct {
	Started        int `json:"started"`
	Draws          int `json:"draws"`
	ChallengerWins int `json:"challengerWins"`
	OpponentWins   int `json:"opponentWins"`
}

// BattlesWatcher tracks Battle card duels.
type BattlesWatcher struct {
	*rules.BaseWatcher
	stats BattleStats
}

// NewBattlesWatcher creates a new battles watcher.
func NewBattlesWatcher() *BattlesWatcher {
	return &BattlesWatcher{BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, KeyBattles)}
}

// Watch implements rules.Watcher.
func (w *BattlesWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventBattleStarted:
		w.stats.Started++
	case rules.EventBattleResolved:
		switch event.Data {
		case "draw":
			w.stats.Draws++
		case "challenger":
			w.stats.ChallengerWins++
		case "opponent":
			w.stats.OpponentWins++
		}
	}
}

// Reset clears the watcher's state.
func (w *BattlesWatcher) Reset() {
	w.stats = BattleStats{}
}

// Stats implements rules.Watcher.
func (w *BattlesWatcher) Stats() any {
	return w.stats
}
