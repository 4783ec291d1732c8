package insights

import "sync"

// Emitter is the bridge between SDK callbacks, which run on threads owned by
// the SDK, and the single consumer of an EventStream. Events emitted after the
// end are dropped, and pending sends unblock once the consumer abandons it.
type Emitter struct {
	mu       sync.Mutex
	events   chan *Event
	quit     chan struct{}
	quitOnce sync.Once
	ended    bool
}

func NewEmitter(buffer int) *Emitter {
	return &Emitter{
		events: make(chan *Event, buffer),
		quit:   make(chan struct{}),
	}
}

func (e *Emitter) Events() <-chan *Event {
	return e.events
}

// Emit sends a non terminal event. It returns false if the event was dropped.
func (e *Emitter) Emit(ev *Event) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return false
	}

	select {
	case e.events <- ev:
		return true
	case <-e.quit:
		return false
	}
}

// End emits the terminal event and closes the channel. Only the first call has
// any effect, so every terminal callback of a recognizer may call it.
func (e *Emitter) End(end *SessionEnd) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return false
	}
	e.ended = true
	if end == nil {
		end = &SessionEnd{Reason: EndReasonStopped}
	}

	select {
	case e.events <- &Event{Kind: EventSessionEnded, End: end}:
	case <-e.quit:
	}
	close(e.events)
	return true
}

// Abandon unblocks every pending and future send. It's called when the
// consumer stops reading.
func (e *Emitter) Abandon() {
	e.quitOnce.Do(func() {
		close(e.quit)
	})
}

// Ended reports whether the terminal event was already emitted.
func (e *Emitter) Ended() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ended
}
