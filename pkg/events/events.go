package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened to a single Coordinator run.
type EventType string

const (
	EventCommitApplied      EventType = "index.commit.applied"
	EventCommitFailed       EventType = "index.commit.failed"
	EventCleanApplied       EventType = "index.clean.applied"
	EventRollbackApplied    EventType = "index.rollback.applied"
	EventRollbackSkipped    EventType = "index.rollback.skipped"
	EventRestoreApplied     EventType = "index.restore.applied"
	EventBootstrapStarted   EventType = "index.bootstrap.started"
	EventBootstrapCompleted EventType = "index.bootstrap.completed"
)

// Event describes one thing that happened while the Coordinator processed
// an instant.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Message   string
	Metadata  map[string]string
}

// Subscriber receives Events published after the Broker is started.
type Subscriber chan *Event

// Broker is an in-memory, non-blocking pub/sub bus. The zero value is not
// usable; create one with NewBroker.
type Broker struct {
	subscribers map[Subscriber]bool
	mu          sync.RWMutex
	eventCh     chan *Event
	stopCh      chan struct{}
}

// NewBroker constructs a Broker. Call Start before publishing.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		eventCh:     make(chan *Event, 100),
		stopCh:      make(chan struct{}),
	}
}

// Start launches the broadcast loop in a background goroutine.
func (b *Broker) Start() {
	go b.run()
}

// Stop signals the broadcast loop to exit. Subscriber channels are left
// open; callers should still Unsubscribe each one.
func (b *Broker) Stop() {
	close(b.stopCh)
}

// Subscribe registers a new buffered channel that receives every
// subsequently published Event.
func (b *Broker) Subscribe() Subscriber {
	sub := make(Subscriber, 50)
	b.mu.Lock()
	b.subscribers[sub] = true
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes and closes sub. Safe to call at most once per
// Subscriber returned by Subscribe.
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()
	close(sub)
}

// Publish enqueues event for broadcast. It fills in ID and Timestamp when
// zero, and never blocks past the broker's own shutdown.
func (b *Broker) Publish(event *Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case b.eventCh <- event:
	case <-b.stopCh:
	}
}

func (b *Broker) run() {
	for {
		select {
		case event := <-b.eventCh:
			b.broadcast(event)
		case <-b.stopCh:
			return
		}
	}
}

func (b *Broker) broadcast(event *Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subscribers {
		select {
		case sub <- event:
		default:
		}
	}
}

// SubscriberCount reports how many subscribers are currently registered.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
