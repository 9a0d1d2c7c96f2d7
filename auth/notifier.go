package auth

import (
	"fmt"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
)

// A Notifier fans authentication events out to the listeners of an application session.
//
// Listeners run synchronously on the goroutine that publishes,
// and must not subscribe or unsubscribe from within the callback.
type Notifier struct {
	bus evbus.Bus

	mu     sync.Mutex
	topics map[string]map[string]struct{}
}

// NewNotifier constructs a *Notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		bus:    evbus.New(),
		topics: make(map[string]map[string]struct{}),
	}
}

// Subscribe registers fn for the events of the application session sid.
func (n *Notifier) Subscribe(sid string, fn Listener) (*Subscription, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil listener", ErrNotValid)
	}

	// NOTE: each subscription gets its own topic;
	// the bus tells handlers on a topic apart by function pointer,
	// and every closure built from the same func literal shares one.
	topic := fmt.Sprintf("auth:%s:%s", sid, uuid.NewString())
	handler := func(e Event, s *Session) { fn(e, s) }
	if err := n.bus.Subscribe(topic, handler); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnexpected, err)
	}

	n.mu.Lock()
	if n.topics[sid] == nil {
		n.topics[sid] = make(map[string]struct{})
	}
	n.topics[sid][topic] = struct{}{}
	n.mu.Unlock()

	return &Subscription{n: n, sid: sid, topic: topic, handler: handler}, nil
}

// Publish delivers e and s to every listener of sid.
func (n *Notifier) Publish(sid string, e Event, s *Session) {
	n.mu.Lock()
	topics := make([]string, 0, len(n.topics[sid]))
	for t := range n.topics[sid] {
		topics = append(topics, t)
	}
	n.mu.Unlock()

	for _, t := range topics {
		n.bus.Publish(t, e, s)
	}
}

// Listeners counts the listeners subscribed to sid.
func (n *Notifier) Listeners(sid string) int {
	n.mu.Lock()
	defer n.mu.Unlock()

	return len(n.topics[sid])
}

func (n *Notifier) unsubscribe(sid, topic string, handler func(Event, *Session)) {
	n.mu.Lock()
	delete(n.topics[sid], topic)
	if len(n.topics[sid]) == 0 {
		delete(n.topics, sid)
	}
	n.mu.Unlock()

	n.bus.Unsubscribe(topic, handler)
}

// A Subscription is the handle to a registered Listener.
type Subscription struct {
	n       *Notifier
	sid     string
	topic   string
	handler func(Event, *Session)
	once    sync.Once
}

// Unsubscribe stops delivering events to the Listener.
// Calling it more than once does nothing.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}

	s.once.Do(func() { s.n.unsubscribe(s.sid, s.topic, s.handler) })
}
