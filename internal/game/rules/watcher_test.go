package rules

import (
	"testing"
)

type countingWatcher struct {
	*BaseWatcher
	seen []EventType
}

func newCountingWatcher(key string, scope WatcherScope) *countingWatcher {
	return &countingWatcher{BaseWatcher: NewBaseWatcher(scope, key)}
}

func (w *countingWatcher) Watch(event Event) { w.seen = append(w.seen, event.Type) }
func (w *countingWatcher) Reset()            { w.seen = nil }
func (w *countingWatcher) Stats() any        { return len(w.seen) }

func TestWatcherRegistry(t *testing.T) {
	registry := NewWatcherRegistry("")
	table := newCountingWatcher("table", WatcherScopeGame)
	players := newCountingWatcher("players", WatcherScopePlayer)
	registry.AddWatcher(table)
	registry.AddWatcher(players)
	registry.AddWatcher(nil)
	registry.AddWatcher(newCountingWatcher("", WatcherScopeGame))

	if registry.Len() != 2 {
		t.Fatalf("expected 2 watchers, got %d", registry.Len())
	}
	if keys := registry.Keys(WatcherScopePlayer); len(keys) != 1 || keys[0] != "players" {
		t.Fatalf("unexpected player keys %v", keys)
	}

	registry.NotifyWatchers(NewEvent(EventStateChanged, "ADD_PLAYER", ""))
	registry.NotifyWatchers(NewEvent(EventCardUsed, "USE_CARD", "p1"))

	stats := registry.Stats()
	if stats["table"] != 2 || stats["players"] != 2 {
		t.Fatalf("unexpected stats %v", stats)
	}

	registry.ResetWatchers()
	if len(table.seen) != 0 {
		t.Fatal("reset should clear watchers")
	}

	registry.RemoveWatcher("table")
	registry.RemoveWatcher("missing")
	if registry.Len() != 1 {
		t.Fatalf("expected 1 watcher after removal, got %d", registry.Len())
	}
	if _, ok := registry.Stats()["table"]; ok {
		t.Fatal("removed watcher should not report stats")
	}
}

func TestWatcherRegistryResetsOnEvent(t *testing.T) {
	registry := NewWatcherRegistry(EventGameStarted)
	w := newCountingWatcher("w", WatcherScopeGame)
	registry.AddWatcher(w)

	registry.NotifyWatchers(NewEvent(EventStateChanged, "", ""))
	registry.NotifyWatchers(NewEvent(EventStateChanged, "", ""))
	registry.NotifyWatchers(NewEvent(EventGameStarted, "", ""))

	if len(w.seen) != 1 || w.seen[0] != EventGameStarted {
		t.Fatalf("expected only the reset event to remain, got %v", w.seen)
	}
}

func TestWatcherRegistryAttach(t *testing.T) {
	bus := NewEventBus()
	registry := NewWatcherRegistry("")
	w := newCountingWatcher("w", WatcherScopeGame)
	registry.AddWatcher(w)

	detach := registry.Attach(bus)
	bus.Publish(NewEvent(EventStateChanged, "", ""))
	detach()
	bus.Publish(NewEvent(EventStateChanged, "", ""))

	if len(w.seen) != 1 {
		t.Fatalf("expected 1 event while attached, got %d", len(w.seen))
	}
}

func TestWatcherScopeString(t *testing.T) {
	if WatcherScopeGame.String() != "GAME" || WatcherScopePlayer.String() != "PLAYER" || WatcherScope(9).String() != "UNKNOWN" {
		t.Fatal("unexpected scope names")
	}
}
