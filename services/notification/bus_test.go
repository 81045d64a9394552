package notification

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

func TestPublish_InSubscriptionOrder(t *testing.T) {
	bus := NewDefaultBus(zap.NewNop())
	var calls []string

	bus.Subscribe(UsersChanged, func(Topic) error { calls = append(calls, "first"); return nil })
	bus.Subscribe(UsersChanged, func(Topic) error { calls = append(calls, "second"); return nil })
	bus.Subscribe(SelectionChanged, func(Topic) error { calls = append(calls, "other"); return nil })

	if err := bus.Publish(UsersChanged); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if want := []string{"first", "second"}; !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestPublish_NoSubscribers(t *testing.T) {
	if err := NewDefaultBus(nil).Publish(MeetingLengthChanged); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestPublish_HandlerReceivesTopic(t *testing.T) {
	bus := NewDefaultBus(zap.NewNop())
	var got Topic
	bus.Subscribe(SelectedUserChanged, func(topic Topic) error { got = topic; return nil })

	_ = bus.Publish(SelectedUserChanged)
	if got != SelectedUserChanged {
		t.Errorf("handler saw %q", got)
	}
}

func TestPublish_ErrorStopsDelivery(t *testing.T) {
	bus := NewDefaultBus(zap.NewNop())
	boom := errors.New("boom")
	reached := false

	bus.Subscribe(UsersChanged, func(Topic) error { return boom })
	bus.Subscribe(UsersChanged, func(Topic) error { reached = true; return nil })

	err := bus.Publish(UsersChanged)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if reached {
		t.Error("second handler should not run after an error")
	}
}

func TestCancel(t *testing.T) {
	bus := NewDefaultBus(zap.NewNop())
	count := 0
	sub := bus.Subscribe(UsersChanged, func(Topic) error { count++; return nil })
	keep := bus.Subscribe(UsersChanged, func(Topic) error { return nil })

	_ = bus.Publish(UsersChanged)
	sub.Cancel()
	sub.Cancel()
	_ = bus.Publish(UsersChanged)

	if count != 1 {
		t.Errorf("expected 1 delivery before cancel, got %d", count)
	}
	if n := bus.SubscriberCount(UsersChanged); n != 1 {
		t.Errorf("expected 1 remaining subscriber, got %d", n)
	}

	keep.Cancel()
	if n := bus.SubscriberCount(UsersChanged); n != 0 {
		t.Errorf("expected no subscribers, got %d", n)
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	bus := NewDefaultBus(zap.NewNop())
	late := 0
	bus.Subscribe(UsersChanged, func(Topic) error {
		bus.Subscribe(UsersChanged, func(Topic) error { late++; return nil })
		return nil
	})

	if err := bus.Publish(UsersChanged); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if late != 0 {
		t.Error("handler added mid-publish should wait for the next publish")
	}
}
