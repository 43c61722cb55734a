package rules

import (
	"testing"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	pickedCount := 0
	usedCount := 0

	handle1 := bus.SubscribeTyped(EventPlayerPicked, func(e Event) {
		pickedCount++
	})
	handle2 := bus.SubscribeTyped(EventCardUsed, func(e Event) {
		usedCount++
	})

	bus.Publish(NewEvent(EventPlayerPicked, "NEXT_PLAYER", "p1"))
	if pickedCount != 1 {
		t.Fatalf("expected picked count 1, got %d", pickedCount)
	}
	if usedCount != 0 {
		t.Fatalf("expected used count 0, got %d", usedCount)
	}

	bus.Publish(NewEvent(EventCardUsed, "USE_CARD", "p1"))
	if usedCount != 1 {
		t.Fatalf("expected used count 1, got %d", usedCount)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEvent(EventPlayerPicked, "NEXT_PLAYER", "p2"))
	if pickedCount != 1 {
		t.Fatalf("expected picked count still 1 after unsubscribe, got %d", pickedCount)
	}

	bus.Unsubscribe(handle2)
	bus.Publish(NewEvent(EventCardUsed, "USE_CARD", "p2"))
	if usedCount != 1 {
		t.Fatalf("expected used count still 1 after unsubscribe, got %d", usedCount)
	}
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()

	count := 0
	handle := bus.Subscribe(func(e Event) {
		count++
	})

	bus.PublishBatch([]Event{
		NewEvent(EventStateChanged, "START_GAME", ""),
		NewEvent(EventGameStarted, "START_GAME", ""),
		NewEvent(EventPickingStarted, "START_GAME", ""),
	})
	if count != 3 {
		t.Fatalf("expected 3 events, got %d", count)
	}

	bus.Unsubscribe(handle)
	bus.Publish(NewEvent(EventGameReset, "RESET_GAME", ""))
	if count != 3 {
		t.Fatalf("expected count still 3 after unsubscribe, got %d", count)
	}
}

func TestEventBusRejectsEmptySubscriptions(t *testing.T) {
	bus := NewEventBus()
	if h := bus.SubscribeTyped("", func(Event) {}); h != -1 {
		t.Fatalf("expected -1 for empty event type, got %d", h)
	}
	if h := bus.Subscribe(nil); h != -1 {
		t.Fatalf("expected -1 for nil listener, got %d", h)
	}
	// unknown handles are ignored
	bus.Unsubscribe(42)
}

func TestEventBusListenerMayUnsubscribe(t *testing.T) {
	bus := NewEventBus()

	calls := 0
	var handle int
	handle = bus.Subscribe(func(e Event) {
		calls++
		bus.Unsubscribe(handle)
	})

	bus.Publish(NewEvent(EventStateChanged, "", ""))
	bus.Publish(NewEvent(EventStateChanged, "", ""))
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent(EventStealAttempted, "ATTEMPT_STEAL", "p1")
	if ev.Type != EventStealAttempted || ev.Action != "ATTEMPT_STEAL" || ev.PlayerID != "p1" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Metadata == nil {
		t.Fatal("expected metadata map to be initialised")
	}
	if ev.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}
