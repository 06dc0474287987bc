package gotrue

import (
	"sync"
	"sync/atomic"

	"github.com/vecino-labs/vecino"
)

// dispatcher fans identity change events out to subscribers. Sequence
// numbers are assigned at emission and events are delivered in
// emission order from a single goroutine, so a subscriber never sees a
// newer event before an older one.
type dispatcher struct {
	mu      sync.Mutex
	subs    map[int]vecino.IdentityChangeHandler
	nextSub int
	seq     atomic.Uint64
	events  chan vecino.IdentityEvent
	done    chan struct{}
	once    sync.Once
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		subs:   map[int]vecino.IdentityChangeHandler{},
		events: make(chan vecino.IdentityEvent, 64),
		done:   make(chan struct{}),
	}

	go d.run()

	return d
}

func (d *dispatcher) run() {
	for {
		select {
		case ev := <-d.events:
			d.mu.Lock()
			handlers := make([]vecino.IdentityChangeHandler, 0, len(d.subs))
			for _, fn := range d.subs {
				handlers = append(handlers, fn)
			}
			d.mu.Unlock()

			for _, fn := range handlers {
				fn(ev)
			}
		case <-d.done:
			return
		}
	}
}

// emit queues an event carrying the next sequence number.
func (d *dispatcher) emit(kind vecino.IdentityEventKind, session vecino.Session, user vecino.Identity) {
	ev := vecino.IdentityEvent{
		Kind:    kind,
		Seq:     d.seq.Add(1),
		Session: session,
		User:    user,
	}

	select {
	case d.events <- ev:
	case <-d.done:
	}
}

func (d *dispatcher) subscribe(fn vecino.IdentityChangeHandler) func() {
	d.mu.Lock()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.subs, id)
		d.mu.Unlock()
	}
}

func (d *dispatcher) close() {
	d.once.Do(func() {
		close(d.done)
	})
}
