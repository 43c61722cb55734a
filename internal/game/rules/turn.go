package rules

// ForcedDareThreshold is the consecutive-turn count at which Truth is disabled.
const ForcedDareThreshold = 2

// NoSeat marks the absence of a current player.
const NoSeat = -1

// Rotation is the outcome of applying one random pick to the consecutive-turn counters.
type Rotation struct {
	Counters []int // new counters, one per seat; the input slice is never modified
	Picked   int   // seat that now holds the turn
	Repeat   bool  // the picked seat already held the turn
	Forced   bool  // the picked seat must take a Dare
}

// ApplyPick updates consecutive-turn counters for a pick.
//
// A repeat pick increments the picked seat's counter. Any other pick sets the picked
// seat to 1 and resets the seat that just lost the turn to 0. Counters of uninvolved
// seats are left as they are.
func ApplyPick(counters []int, current, picked int) Rotation {
	next := make([]int, len(counters))
	copy(next, counters)

	if picked < 0 || picked >= len(next) {
		return Rotation{Counters: next, Picked: NoSeat}
	}

	repeat := picked == current
	if repeat {
		next[picked]++
	} else {
		next[picked] = 1
		if current >= 0 && current < len(next) {
			next[current] = 0
		}
	}

	return Rotation{
		Counters: next,
		Picked:   picked,
		Repeat:   repeat,
		Forced:   next[picked] >= ForcedDareThreshold,
	}
}
