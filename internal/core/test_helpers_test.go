package core

import (
	"testing"
	"time"
)

func mustEvent(t *testing.T, ch <-chan Event, kind EventKind) Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed while waiting for event kind %v", kind)
			}
			if ev != nil && ev.Kind() == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// eventsFor collects the events addressed to id, in order.
func eventsFor(envelopes []Envelope, id string) []Event {
	var out []Event
	for _, env := range envelopes {
		for _, dst := range env.To {
			if dst == id {
				out = append(out, env.Event)
			}
		}
	}
	return out
}

func fixedClock(start time.Time) func() time.Time {
	return func() time.Time { return start }
}
