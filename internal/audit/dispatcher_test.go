package audit

import (
	"errors"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memoryWriter struct {
	mu     sync.Mutex
	events []Event
	gate   chan struct{}
	fail   bool
}

func (w *memoryWriter) Log(ev Event) error {
	if w.gate != nil {
		<-w.gate
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, ev)
	if w.fail {
		return errors.New("db down")
	}
	return nil
}

func TestDispatchWritesInOrder(t *testing.T) {
	w := &memoryWriter{}
	d := NewDispatcher(w)

	d.Dispatch(Event{Action: "booking_created", EntityID: "b1"})
	d.Dispatch(Event{Action: "booking_deleted", EntityID: "b1"})
	d.Close()

	assert.Len(t, w.events, 2)
	assert.Equal(t, "booking_created", w.events[0].Action)
	assert.Equal(t, "booking_deleted", w.events[1].Action)
}

func TestDispatchDropsWhenFull(t *testing.T) {
	w := &memoryWriter{gate: make(chan struct{})}
	d := NewDispatcherSize(w, 1)

	// The worker holds the first event at the gate; the second fills the
	// queue and the third is dropped.
	d.Dispatch(Event{Action: "a"})
	for len(d.queue) > 0 {
		runtime.Gosched()
	}
	d.Dispatch(Event{Action: "b"})
	d.Dispatch(Event{Action: "c"})

	close(w.gate)
	d.Close()

	var actions []string
	for _, ev := range w.events {
		actions = append(actions, ev.Action)
	}
	assert.Equal(t, []string{"a", "b"}, actions)
}

func TestWriterErrorsDoNotStopWorker(t *testing.T) {
	w := &memoryWriter{fail: true}
	d := NewDispatcher(w)

	d.Dispatch(Event{Action: "a"})
	d.Dispatch(Event{Action: "b"})
	d.Close()

	assert.Len(t, w.events, 2)
}
