package rules

import (
	"sync"
)

// WatcherScope defines the scope of a watcher's tracking.
type WatcherScope int

const (
	// WatcherScopeGame tracks events for the entire table.
	WatcherScopeGame WatcherScope = iota
	// WatcherScopePlayer tracks events per player.
	WatcherScopePlayer
)

// String returns the string representation of the watcher scope.
func (ws WatcherScope) String() string {
	switch ws {
	case WatcherScopeGame:
		return "GAME"
	case WatcherScopePlayer:
		return "PLAYER"
	default:
		return "UNKNOWN"
	}
}

// Watcher accumulates facts from published events.
type Watcher interface {
	// Watch is called for every event published while the watcher is registered.
	Watch(event Event)
	// Reset clears everything the watcher has tracked.
	Reset()
	// Scope reports what the watcher tracks.
	Scope() WatcherScope
	// Key identifies the watcher in its registry.
	Key() string
	// Stats returns a copy of the tracked data, safe to serialize.
	Stats() any
}

// BaseWatcher carries the key and scope for embedding watchers.
type BaseWatcher struct {
	scope WatcherScope
	key   string
}

// NewBaseWatcher creates a base watcher with the specified scope and key.
func NewBaseWatcher(scope WatcherScope, key string) *BaseWatcher {
	return &BaseWatcher{scope: scope, key: key}
}

// Scope returns the watcher's scope.
func (bw *BaseWatcher) Scope() WatcherScope {
	return bw.scope
}

// Key returns the unique key for this watcher.
func (bw *BaseWatcher) Key() string {
	return bw.key
}

// WatcherRegistry feeds events to a set of watchers. Watchers are only touched under
// the registry lock, so they need no locking of their own.
type WatcherRegistry struct {
	mu       sync.Mutex
	watchers map[string]Watcher
	order    []string
	// resetOn, when set, clears every watcher before the event is delivered.
	resetOn EventType
}

// NewWatcherRegistry creates an empty registry. Events of type resetOn clear every
// watcher first; pass "" to never reset automatically.
func NewWatcherRegistry(resetOn EventType) *WatcherRegistry {
	return &WatcherRegistry{watchers: make(map[string]Watcher), resetOn: resetOn}
}

// AddWatcher registers w, replacing any watcher with the same key.
func (wr *WatcherRegistry) AddWatcher(w Watcher) {
	if w == nil || w.Key() == "" {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if _, ok := wr.watchers[w.Key()]; !ok {
		wr.order = append(wr.order, w.Key())
	}
	wr.watchers[w.Key()] = w
}

// RemoveWatcher removes the watcher registered under key.
func (wr *WatcherRegistry) RemoveWatcher(key string) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if _, ok := wr.watchers[key]; !ok {
		return
	}
	delete(wr.watchers, key)
	for i, k := range wr.order {
		if k == key {
			wr.order = append(wr.order[:i:i], wr.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered watchers.
func (wr *WatcherRegistry) Len() int {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	return len(wr.watchers)
}

// Keys returns watcher keys of the given scope in registration order.
func (wr *WatcherRegistry) Keys(scope WatcherScope) []string {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	var out []string
	for _, k := range wr.order {
		if wr.watchers[k].Scope() == scope {
			out = append(out, k)
		}
	}
	return out
}

// NotifyWatchers delivers event to every watcher in registration order.
func (wr *WatcherRegistry) NotifyWatchers(event Event) {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	if wr.resetOn != "" && event.Type == wr.resetOn {
		for _, k := range wr.order {
			wr.watchers[k].Reset()
		}
	}
	for _, k := range wr.order {
		wr.watchers[k].Watch(event)
	}
}

// ResetWatchers clears every watcher.
func (wr *WatcherRegistry) ResetWatchers() {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	for _, k := range wr.order {
		wr.watchers[k].Reset()
	}
}

// Stats collects every watcher's stats keyed by watcher key.
func (wr *WatcherRegistry) Stats() map[string]any {
	wr.mu.Lock()
	defer wr.mu.Unlock()
	out := make(map[string]any, len(wr.watchers))
	for _, k := range wr.order {
		out[k] = wr.watchers[k].Stats()
	}
	return out
}

// Attach subscribes the registry to bus and returns the unsubscribe func.
func (wr *WatcherRegistry) Attach(bus *EventBus) func() {
	handle := bus.Subscribe(wr.NotifyWatchers)
	return func() { bus.Unsubscribe(handle) }
}
