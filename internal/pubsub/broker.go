package pubsub

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Broker is a simple in-memory pub/sub system used to push leaderboard
// snapshot notifications to websocket clients.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan []byte // topic -> list of subscriber channels
	latest      map[string][]byte        // topic -> most recent message
}

type WsMessage struct {
	Stream string `json:"stream"`
	Data   string `json:"data"`
}

var (
	once   sync.Once
	broker *Broker
)

// GetBroker returns the singleton instance of the Broker.
func GetBroker() *Broker {
	once.Do(func() {
		broker = &Broker{
			subscribers: make(map[string][]chan []byte),
			latest:      make(map[string][]byte),
		}
	})
	return broker
}

// Subscribe subscribes to a topic. A new subscriber immediately receives the
// most recent message on the topic, if any, then live messages after that.
func (b *Broker) Subscribe(topic string) (<-chan []byte, func()) {
	b.mu.Lock()

	ch := make(chan []byte, 16)
	if msg, ok := b.latest[topic]; ok {
		ch <- msg
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subscribers[topic]
		for i, sub := range subscribers {
			if sub == ch {
				b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
		zap.S().Debugf("unsubscribed from topic %s", topic)
	}

	zap.S().Debugf("new subscription to topic %s", topic)
	return ch, unsubscribe
}

// Publish sends a message to all subscribers of a topic. Only the latest
// message is retained for future subscribers: a newer snapshot supersedes
// every older one.
func (b *Broker) Publish(topic string, msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest[topic] = msg

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// A slow client must never block the publisher; it will catch up
			// from the latest retained message when it drains.
		}
	}
}

// Helper to format stream messages
func FormatMessage(streamType string, data string) []byte {
	msg := WsMessage{Stream: streamType, Data: data}
	bytes, err := json.Marshal(msg)
	if err != nil {
		return []byte(`{"stream": "error", "data": "json format error"}`)
	}
	return bytes
}
