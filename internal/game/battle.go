package game

// Move is a rock-paper-scissors choice.
type Move string

const (
	MoveNone     Move = ""
	MoveRock     Move = "rock"
	MovePaper    Move = "paper"
	MoveScissors Move = "scissors"
)

// Valid reports whether m is one of the three moves.
func (m Move) Valid() bool {
	return m == MoveRock || m == MovePaper || m == MoveScissors
}

// Beats reports whether m defeats other.
func (m Move) Beats(other Move) bool {
	switch m {
	case MoveRock:
		return other == MoveScissors
	case MoveScissors:
		return other == MovePaper
	case MovePaper:
		return other == MoveRock
	}
	return false
}

// BattlePhase is the duel's progress.
type BattlePhase string

const (
	BattleChallengerChoosing BattlePhase = "challengerChoosing"
	BattleOpponentChoosing   BattlePhase = "opponentChoosing"
	BattleRevealPending      BattlePhase = "revealPending"
	BattleResolved           BattlePhase = "resolved"
)

// BattleOutcome is the result of a revealed duel.
type BattleOutcome string

const (
	OutcomeNone       BattleOutcome = ""
	OutcomeChallenger BattleOutcome = "challenger"
	OutcomeOpponent   BattleOutcome = "opponent"
	OutcomeDraw       BattleOutcome = "draw"
)

// Resolve decides a duel between two valid moves.
func Resolve(challenger, opponent Move) BattleOutcome {
	switch {
	case challenger == opponent:
		return OutcomeDraw
	case challenger.Beats(opponent):
		return OutcomeChallenger
	default:
		return OutcomeOpponent
	}
}

// Battle is a pending rock-paper-scissors duel. Challenger and Opponent are
// snapshots taken when the duel opened.
type Battle struct {
	Challenger     Player        `json:"challenger"`
	Opponent       Player        `json:"opponent"`
	Phase          BattlePhase   `json:"phase"`
	ChallengerMove Move          `json:"challengerMove"`
	OpponentMove   Move          `json:"opponentMove"`
	Outcome        BattleOutcome `json:"outcome"`
}

func (b *Battle) clone() *Battle {
	if b == nil {
		return nil
	}
	out := *b
	out.Challenger = b.Challenger.clone()
	out.Opponent = b.Opponent.clone()
	return &out
}

// Loser returns the losing snapshot once the duel resolved with a winner.
func (b *Battle) Loser() (Player, bool) {
	if b == nil || b.Phase != BattleResolved {
		return Player{}, false
	}
	switch b.Outcome {
	case OutcomeChallenger:
		return b.Opponent, true
	case OutcomeOpponent:
		return b.Challenger, true
	}
	return Player{}, false
}

// Winner returns the winning snapshot once the duel resolved with a winner.
func (b *Battle) Winner() (Player, bool) {
	if b == nil || b.Phase != BattleResolved {
		return Player{}, false
	}
	switch b.Outcome {
	case OutcomeChallenger:
		return b.Challenger, true
	case OutcomeOpponent:
		return b.Opponent, true
	}
	return Player{}, false
}

// inBattle rejects battle actions outside a running game, such as a restored duel
// waiting on the setup screen.
func inBattle(s State) error {
	if s.Screen != ScreenGame {
		return reject("game not started")
	}
	if s.Battle == nil {
		return reject("no battle in progress")
	}
	return nil
}

func (r *Reducer) chooseBattleMove(s State, a ChooseBattleMove) (State, error) {
	if err := inBattle(s); err != nil {
		return s, err
	}
	if !a.Move.Valid() {
		return s, reject("invalid move %q", a.Move)
	}
	next := s.Clone()
	switch next.Battle.Phase {
	case BattleChallengerChoosing:
		next.Battle.ChallengerMove = a.Move
		next.Battle.Phase = BattleOpponentChoosing
	case BattleOpponentChoosing:
		next.Battle.OpponentMove = a.Move
		next.Battle.Phase = BattleRevealPending
	default:
		return s, reject("battle is not accepting moves in phase %s", s.Battle.Phase)
	}
	return next, nil
}

func (r *Reducer) revealBattle(s State) (State, error) {
	if err := inBattle(s); err != nil {
		return s, err
	}
	if s.Battle.Phase != BattleRevealPending {
		return s, reject("battle is not ready to reveal")
	}
	next := s.Clone()
	next.Battle.Outcome = Resolve(next.Battle.ChallengerMove, next.Battle.OpponentMove)
	next.Battle.Phase = BattleResolved
	if next.Battle.Outcome == OutcomeDraw {
		next.GameMessage = message(MsgBattleDraw)
	}
	return next, nil
}

func (r *Reducer) replayBattle(s State) (State, error) {
	if err := inBattle(s); err != nil {
		return s, err
	}
	if s.Battle.Phase != BattleResolved || s.Battle.Outcome != OutcomeDraw {
		return s, reject("only a drawn battle can be replayed")
	}
	next := s.Clone()
	next.Battle.ChallengerMove = MoveNone
	next.Battle.OpponentMove = MoveNone
	next.Battle.Outcome = OutcomeNone
	next.Battle.Phase = BattleChallengerChoosing
	next.GameMessage = nil
	return next, nil
}

func (r *Reducer) endBattle(s State, a EndBattle) (State, error) {
	if err := inBattle(s); err != nil {
		return s, err
	}
	loser, ok := s.Battle.Loser()
	if !ok {
		return s, reject("battle has no loser yet")
	}
	if a.LoserID != "" && a.LoserID != loser.ID {
		return s, reject("player %s did not lose the battle", a.LoserID)
	}
	loserIdx := s.PlayerIndex(loser.ID)
	if loserIdx < 0 {
		return s, reject("battle loser %s is no longer seated", loser.ID)
	}

	next := s.Clone()
	next.Battle = nil
	next.CurrentPlayerIndex = index(loserIdx)
	next.Challenge = emptyChallenge()
	next.IsForcedDare = true
	next.Turn = TurnActive
	next.Dialog, next.DialogReturn = DialogNone, DialogNone
	next.GameMessage = message(MsgBattleLoser, "name", next.Players[loserIdx].Name)
	return next, nil
}
