package session

import (
	"time"

	"github.com/truthortrap/trap-server-go/internal/game"
)

// timer is a cancelable one-shot whose callback only runs if it is still the armed one.
type timer struct {
	t   *time.Timer
	gen uint64
}

func (t *timer) armed() bool {
	return t.t != nil
}

func (t *timer) stop() {
	if t.t != nil {
		t.t.Stop()
		t.t = nil
	}
	t.gen++
}

// armTimers keeps the picker and reveal timers in line with st. Called with s.mu held.
func (s *Session) armTimers(st game.State) {
	if !s.autoAdvance || s.closed {
		s.picker.stop()
		s.reveal.stop()
		return
	}

	if st.Turn == game.TurnPicking && st.Screen == game.ScreenGame {
		if !s.picker.armed() {
			s.arm(&s.picker, s.pickDelay, game.NextPlayer{})
		}
	} else {
		s.picker.stop()
	}

	if st.Battle != nil && st.Battle.Phase == game.BattleRevealPending {
		if !s.reveal.armed() {
			s.arm(&s.reveal, s.revealDelay, game.RevealBattle{})
		}
	} else {
		s.reveal.stop()
	}
}

func (s *Session) arm(t *timer, delay time.Duration, a game.Action) {
	t.stop()
	gen := t.gen
	t.t = time.AfterFunc(delay, func() {
		_, _ = s.dispatch(a, func() bool {
			if t.gen != gen {
				return false
			}
			// the timer has fired; clear it so armTimers can re-arm after this dispatch
			t.t = nil
			return true
		})
	})
}
