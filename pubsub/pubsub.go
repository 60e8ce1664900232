package pubsub

import "sync"

// EventType enumerates the real-time stream events the engine publishes,
// grounded on misskey-rs's StreamEvent enum.
type EventType string

const (
	NoteCreated     EventType = "note_created"
	NoteDeleted     EventType = "note_deleted"
	NoteUpdated     EventType = "note_updated"
	Followed        EventType = "followed"
	Unfollowed      EventType = "unfollowed"
	ReactionAdded   EventType = "reaction_added"
	ReactionRemoved EventType = "reaction_removed"
	Notification    EventType = "notification"
	DirectMessage   EventType = "direct_message"
	ChannelNote     EventType = "channel_note_created"
)

// Event is a single published occurrence. Payload is the domain object
// relevant to Type (a *domain.Note, *domain.Follow, etc) — left untyped so
// this package has no dependency on domain, matching how a pub/sub
// transport shouldn't need to know its payload shapes.
type Event struct {
	Type    EventType
	Topic   string // typically an account id or "global"
	Payload any
}

// Publisher is the C9 seam: callers publish typed events without knowing
// who (if anyone) is subscribed.
type Publisher interface {
	Publish(e Event)
}

// NoOpPublisher discards every event. It's the default when no subscriber
// infrastructure (SSH TUI live view, websocket bridge) is wired up yet.
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(Event) {}

// Broker is a lossy fan-out publisher: each subscriber gets a buffered
// channel, and a slow subscriber has events dropped rather than blocking
// the publisher.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	bufferSize  int
}

func NewBroker(bufferSize int) *Broker {
	return &Broker{
		subscribers: make(map[int]chan Event),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new listener and returns its channel plus an
// unsubscribe func the caller must invoke when done.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.bufferSize)
	b.subscribers[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(c)
		}
	}
	return ch, unsubscribe
}

// Publish fans e out to every subscriber. A subscriber whose buffer is full
// has this event dropped for it rather than stalling the publisher or other
// subscribers.
func (b *Broker) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
		}
	}
}

var _ Publisher = (*Broker)(nil)
var _ Publisher = NoOpPublisher{}
