package rules

import (
	"sync"
	"time"
)

// EventType indicates the category of a game transition.
type EventType string

const (
	// Lifecycle events
	EventStateChanged EventType = "STATE_CHANGED"
	EventGameStarted  EventType = "GAME_STARTED"
	EventGameReset    EventType = "GAME_RESET"

	// Turn events
	EventPickingStarted EventType = "PICKING_STARTED"
	EventPlayerPicked   EventType = "PLAYER_PICKED"
	EventCardAwarded    EventType = "CARD_AWARDED"
	EventTurnCompleted  EventType = "TURN_COMPLETED"

	// Challenge events
	EventChallengeRequested EventType = "CHALLENGE_REQUESTED"
	EventChallengeReceived  EventType = "CHALLENGE_RECEIVED"
	EventChallengeFailed    EventType = "CHALLENGE_FAILED"

	// Card events
	EventCardUsed       EventType = "CARD_USED"
	EventBattleStarted  EventType = "BATTLE_STARTED"
	EventBattleResolved EventType = "BATTLE_RESOLVED"
	EventStealAttempted EventType = "STEAL_ATTEMPTED"

	// EventRejected reports an action the reducer absorbed as a no-op.
	EventRejected EventType = "REJECTED"
)

// Event describes a committed transition that other subsystems may react to.
type Event struct {
	Type      EventType
	Action    string            // Action kind that produced the event
	PlayerID  string            // Acting player, if any
	TargetID  string            // Affected player, if any
	Card      string            // Card involved, if any
	Data      string            // Additional string data (challenge type, reason)
	Timestamp time.Time         // When the event was published
	Metadata  map[string]string // Additional metadata
}

// NewEvent creates an event with common fields populated.
func NewEvent(eventType EventType, action, playerID string) Event {
	return Event{
		Type:      eventType,
		Action:    action,
		PlayerID:  playerID,
		Timestamp: time.Now(),
		Metadata:  make(map[string]string),
	}
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType // empty means every event
	callback  Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add("", listener)
}

// SubscribeTyped registers a listener for a single event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	if eventType == "" {
		return -1
	}
	return bus.add(eventType, listener)
}

func (bus *EventBus) add(eventType EventType, listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: listener})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subs {
		if sub.handle == handle {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to matching listeners synchronously, in subscription order.
// Listeners run outside the bus lock so they may subscribe or unsubscribe.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	targets := make([]Listener, 0, len(bus.subs))
	for _, sub := range bus.subs {
		if sub.eventType == "" || sub.eventType == event.Type {
			targets = append(targets, sub.callback)
		}
	}
	bus.mu.RUnlock()

	for _, listener := range targets {
		listener(event)
	}
}

// PublishBatch publishes multiple events in order.
func (bus *EventBus) PublishBatch(events []Event) {
	for _, event := range events {
		bus.Publish(event)
	}
}
