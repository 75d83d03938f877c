package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/talentlink/talentlink-client/internal/client/models"
	"github.com/talentlink/talentlink-client/internal/logging"
)

// TopicCallback receives every stream message published on a subscribed
// topic.
type TopicCallback func(msg models.StreamMessage)

// TopicRegistry is the publish-subscribe registry for named stream
// channels. A topic entry exists only while it has at least one callback;
// unsubscribing the last one removes the entry. All mutation goes through
// Subscribe/Publish; the registry is safe for concurrent use.
type TopicRegistry struct {
	log logging.Logger

	mu     sync.Mutex
	nextID int
	topics map[string]map[int]TopicCallback
}

func NewTopicRegistry(log logging.Logger) *TopicRegistry {
	if log == nil {
		log = logging.NewDefault()
	}
	return &TopicRegistry{log: log, topics: make(map[string]map[int]TopicCallback)}
}

// Subscribe registers fn under topic and returns a handle that removes
// exactly that callback. Independent subscriptions to the same topic
// coexist; removing one leaves the others delivering.
func (r *TopicRegistry) Subscribe(topic string, fn TopicCallback) (unsubscribe func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.topics[topic]
	if !ok {
		subs = make(map[int]TopicCallback)
		r.topics[topic] = subs
	}
	id := r.nextID
	r.nextID++
	subs[id] = fn

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if subs, ok := r.topics[topic]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(r.topics, topic)
			}
		}
	}
}

// HasSubscribers reports whether topic currently has at least one callback.
func (r *TopicRegistry) HasSubscribers(topic string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics[topic]) > 0
}

// ActiveTopics lists topics with at least one subscriber.
func (r *TopicRegistry) ActiveTopics() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.topics))
	for t := range r.topics {
		out = append(out, t)
	}
	return out
}

// Publish delivers msg to every callback registered for its topic and
// returns how many were invoked. A panicking callback is caught and logged
// so one faulty subscriber cannot break delivery to the rest.
func (r *TopicRegistry) Publish(msg models.StreamMessage) int {
	r.mu.Lock()
	callbacks := make([]TopicCallback, 0, len(r.topics[msg.Topic]))
	for _, fn := range r.topics[msg.Topic] {
		callbacks = append(callbacks, fn)
	}
	r.mu.Unlock()

	for _, fn := range callbacks {
		r.invoke(msg, fn)
	}
	return len(callbacks)
}

func (r *TopicRegistry) invoke(msg models.StreamMessage, fn TopicCallback) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error(context.Background(), "topic subscriber panicked",
				"topic", msg.Topic, "panic", fmt.Sprint(p))
		}
	}()
	fn(msg)
}
