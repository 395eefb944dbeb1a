package eventbus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := New()
	ch := bus.Subscribe("order.created")

	bus.Publish("order.created", "ORD-1")

	select {
	case evt := <-ch:
		if evt.Topic != "order.created" || evt.Payload != "ORD-1" {
			t.Errorf("unexpected event: %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestPublish_NoSubscribers_DoesNotBlock(t *testing.T) {
	t.Parallel()

	bus := New()
	done := make(chan struct{})
	go func() {
		bus.Publish("nobody.listening", 42)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
}

func TestPublish_FullBuffer_DropsEvent(t *testing.T) {
	t.Parallel()

	bus := New()
	ch := bus.Subscribe("orders")

	for i := 0; i < defaultBufferSize+10; i++ {
		bus.Publish("orders", i)
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received != defaultBufferSize {
				t.Errorf("received %d events, want exactly the buffer size %d", received, defaultBufferSize)
			}
			return
		}
	}
}

func TestSubscribe_MultipleSubscribersEachReceive(t *testing.T) {
	t.Parallel()

	bus := New()
	a := bus.Subscribe("t")
	b := bus.Subscribe("t")

	bus.Publish("t", "x")

	for _, ch := range []<-chan Event{a, b} {
		select {
		case evt := <-ch:
			if evt.Payload != "x" {
				t.Errorf("payload = %v, want x", evt.Payload)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}
