package mqtt

import (
	"log"
	"sync"

	"github.com/sweeney/breath-sync/internal/logic"
	"github.com/sweeney/breath-sync/internal/session"
)

// DefaultQueueSize bounds the number of events waiting to be published.
const DefaultQueueSize = 128

// Forwarder publishes session events on its own goroutine so a slow broker
// never stalls the session controller. When the queue is full, new events
// are dropped and logged.
type Forwarder struct {
	pub  Publisher
	skip map[logic.EventType]bool

	mu     sync.Mutex
	closed bool
	queue  chan logic.Event
	done   chan struct{}
}

// NewForwarder starts a forwarder. Events whose type is listed in skip are
// never published.
func NewForwarder(pub Publisher, size int, skip ...logic.EventType) *Forwarder {
	if size <= 0 {
		size = DefaultQueueSize
	}
	f := &Forwarder{
		pub:   pub,
		skip:  make(map[logic.EventType]bool, len(skip)),
		queue: make(chan logic.Event, size),
		done:  make(chan struct{}),
	}
	for _, t := range skip {
		f.skip[t] = true
	}
	go f.loop()
	return f
}

func (f *Forwarder) loop() {
	defer close(f.done)
	for event := range f.queue {
		if err := f.pub.Publish(event); err != nil {
			// Don't crash on publish failure
			log.Printf("publish error: %v", err)
		}
	}
}

// Observe implements session.Observer.
func (f *Forwarder) Observe(u session.Update) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	for _, event := range u.Events {
		if f.skip[event.Type] {
			continue
		}
		select {
		case f.queue <- event:
		default:
			log.Printf("mqtt: queue full, dropping %s", event.Type)
		}
	}
}

// Close stops accepting events and waits until queued ones are published.
func (f *Forwarder) Close() {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.queue)
	}
	f.mu.Unlock()
	<-f.done
}
