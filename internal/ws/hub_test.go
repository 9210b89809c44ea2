package ws

import (
	"testing"

	"go.uber.org/zap"

	"github.com/profitpilotai/controlplane/internal/models"
)

func drain(sub *Subscription) []models.StatusEvent {
	var events []models.StatusEvent
	for {
		select {
		case ev, ok := <-sub.Send:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestPublishFansOutPerAccount(t *testing.T) {
	hub := NewHub(zap.NewNop())

	subA := hub.Subscribe("u1", nil)
	subB := hub.Subscribe("u1", nil)
	subOther := hub.Subscribe("u2", nil)

	hub.Publish("u1", models.BotRunning)

	for _, sub := range []*Subscription{subA, subB} {
		events := drain(sub)
		if len(events) != 1 || events[0].Status != models.BotRunning {
			t.Fatalf("events = %v, expected one running event", events)
		}
		if events[0].Type != "status" {
			t.Fatalf("event type = %q, expected status", events[0].Type)
		}
	}
	if events := drain(subOther); len(events) != 0 {
		t.Fatalf("other account received %v", events)
	}
}

func TestLateSubscriberGetsNoBacklog(t *testing.T) {
	hub := NewHub(zap.NewNop())

	early := hub.Subscribe("u1", nil)
	hub.Publish("u1", models.BotRunning)

	late := hub.Subscribe("u1", nil)
	if events := drain(late); len(events) != 0 {
		t.Fatalf("late subscriber received backlog %v", events)
	}
	if events := drain(early); len(events) != 1 {
		t.Fatalf("early subscriber events = %v", events)
	}
}

func TestPublishDropsOldestOnOverflow(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := hub.Subscribe("u1", nil)

	statuses := []models.BotStatus{models.BotRunning, models.BotPaused, models.BotStopped}
	for i := 0; i < sendBuffer+8; i++ {
		hub.Publish("u1", statuses[i%len(statuses)])
	}

	events := drain(sub)
	if len(events) != sendBuffer {
		t.Fatalf("len(events) = %d, expected %d", len(events), sendBuffer)
	}
	// The newest event always survives; only stale state is shed.
	want := statuses[(sendBuffer+8-1)%len(statuses)]
	if last := events[len(events)-1].Status; last != want {
		t.Fatalf("last event = %q, expected %q", last, want)
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub(zap.NewNop())
	sub := hub.Subscribe("u1", nil)

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)

	if _, ok := <-sub.Send; ok {
		t.Fatal("Send channel still open after unsubscribe")
	}
	if hub.Count("u1") != 0 {
		t.Fatalf("Count = %d, expected 0", hub.Count("u1"))
	}

	// Publishing to an account with no subscribers is a no-op.
	hub.Publish("u1", models.BotRunning)
}

func TestCloseAccountClosesAllSubscriptions(t *testing.T) {
	hub := NewHub(zap.NewNop())

	subA := hub.Subscribe("u1", nil)
	subB := hub.Subscribe("u1", nil)
	subOther := hub.Subscribe("u2", nil)

	hub.CloseAccount("u1")

	for _, sub := range []*Subscription{subA, subB} {
		if _, ok := <-sub.Send; ok {
			t.Fatal("subscription still open after CloseAccount")
		}
	}
	if hub.Count("u1") != 0 {
		t.Fatalf("Count(u1) = %d, expected 0", hub.Count("u1"))
	}
	if hub.Count("u2") != 1 {
		t.Fatalf("Count(u2) = %d, expected 1", hub.Count("u2"))
	}
	_ = subOther
}

func TestShutdownClosesEverything(t *testing.T) {
	hub := NewHub(zap.NewNop())

	subs := []*Subscription{
		hub.Subscribe("u1", nil),
		hub.Subscribe("u2", nil),
		hub.Subscribe("u3", nil),
	}

	hub.Shutdown()

	for _, sub := range subs {
		if _, ok := <-sub.Send; ok {
			t.Fatal("subscription still open after Shutdown")
		}
	}
}
