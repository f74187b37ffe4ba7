package events

import "testing"

func TestBusPublishReachesSubscribers(t *testing.T) {
	bus := NewBus[string]()

	var got []string
	bus.Subscribe(func(event string) {
		got = append(got, event)
	})

	bus.Publish("first")
	bus.Publish("second")

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("unexpected events %v", got)
	}
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus[int]()

	var count int
	unsubscribe := bus.Subscribe(func(int) { count++ })

	bus.Publish(1)
	unsubscribe()
	bus.Publish(2)

	if count != 1 {
		t.Fatalf("expected 1 delivery after unsubscribe, got %d", count)
	}
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus[int]()

	var a, b int
	bus.Subscribe(func(v int) { a += v })
	bus.Subscribe(func(v int) { b += v })

	bus.Publish(3)

	if a != 3 || b != 3 {
		t.Fatalf("expected both subscribers notified, got a=%d b=%d", a, b)
	}
}
