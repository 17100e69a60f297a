package stream

import (
	"context"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Hub fans coverage events out to websocket clients subscribed by topic.
// When a redis client is configured, events are also mirrored over pub/sub
// so every instance behind a load balancer sees them.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Topic string
	Send  chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(topic string) *Client {
	client := &Client{
		Topic: topic,
		Send:  make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[topic] == nil {
		h.clients[topic] = map[*Client]struct{}{}
	}
	h.clients[topic][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if topicClients, ok := h.clients[client.Topic]; ok {
		delete(topicClients, client)
		if len(topicClients) == 0 {
			delete(h.clients, client.Topic)
		}
	}
	close(client.Send)
}

// Broadcast delivers payload to every client on topic. With redis
// configured, delivery goes through pub/sub so all instances (this one
// included) fan out exactly once.
func (h *Hub) Broadcast(topic string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(topic), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
		return
	}
	h.deliver(topic, payload)
}

func (h *Hub) deliver(topic string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[topic]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "coverage:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(topicFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(topic string) string {
	return "coverage:" + topic + ":events"
}

func topicFromChannel(ch string) string {
	// coverage:{topic}:events
	const prefix = "coverage:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
