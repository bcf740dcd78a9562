package stream

import (
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-vault/internal/core/ports"
)

// DefaultBufferSize is the number of messages a listener can lag behind
// before further ones are dropped.
const DefaultBufferSize = 64

type listener struct {
	topics   map[string]struct{}
	messages chan ports.Message
}

func (l *listener) isListening(topic string) bool {
	if len(l.topics) == 0 {
		return true
	}
	_, ok := l.topics[topic]
	return ok
}

type hub struct {
	lock       sync.RWMutex
	bufferSize int
	listeners  map[string]*listener
}

// NewHub returns an EventStream fanning out published messages to all
// listeners. Publishing never blocks: slow listeners miss messages.
func NewHub(bufferSize int) ports.EventStream {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &hub{
		bufferSize: bufferSize,
		listeners:  make(map[string]*listener),
	}
}

func (h *hub) Publish(topic string, message string) error {
	h.lock.RLock()
	defer h.lock.RUnlock()

	msg := ports.Message{Topic: topic, Payload: message}
	for id, l := range h.listeners {
		if !l.isListening(topic) {
			continue
		}
		select {
		case l.messages <- msg:
		default:
			log.Warnf("stream listener %s is lagging, dropped %s message", id, topic)
		}
	}
	return nil
}

func (h *hub) Listen(topics ...string) (<-chan ports.Message, func()) {
	l := &listener{
		topics:   make(map[string]struct{}),
		messages: make(chan ports.Message, h.bufferSize),
	}
	for _, topic := range topics {
		if topic == ports.AnyTopic {
			l.topics = map[string]struct{}{}
			break
		}
		l.topics[topic] = struct{}{}
	}

	id := uuid.New().String()

	h.lock.Lock()
	h.listeners[id] = l
	h.lock.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			h.lock.Lock()
			delete(h.listeners, id)
			h.lock.Unlock()
			close(l.messages)
		})
	}
	return l.messages, stop
}
