package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/petvetapp/petvet-backend/internal/database"
	"github.com/petvetapp/petvet-backend/internal/models"
)

// Redis channel prefix for per-user message delivery. The REST API publishes
// here on send; each instance's subscriber fans out to locally connected
// receivers. Delivery is best-effort; the messages collection is the source
// of truth.
const messageChannelPrefix = "messages:user:"

// MessageEvent is the payload broadcast over Redis and WebSocket.
type MessageEvent struct {
	Type      string              `json:"type"` // "message"
	Message   *models.MessageView `json:"message,omitempty"`
	Timestamp time.Time           `json:"timestamp,omitempty"`
}

// MessageConn is the minimal interface the WebSocket implementation must satisfy.
type MessageConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// messageHub is a per-instance registry of connected receivers.
type messageHub struct {
	mu          sync.RWMutex
	connections map[string]MessageConn // keyed by user id hex
}

var (
	hub           = &messageHub{connections: make(map[string]MessageConn)}
	subscriberRun sync.Once
)

// RegisterMessageConnection registers or replaces a user's connection.
func RegisterMessageConnection(userID string, conn MessageConn) {
	hub.mu.Lock()
	if old, ok := hub.connections[userID]; ok {
		old.Close()
	}
	hub.connections[userID] = conn
	hub.mu.Unlock()
}

// UnregisterMessageConnection removes a user's connection if it is still the
// registered one.
func UnregisterMessageConnection(userID string, conn MessageConn) {
	hub.mu.Lock()
	if cur, ok := hub.connections[userID]; ok && cur == conn {
		delete(hub.connections, userID)
	}
	hub.mu.Unlock()
}

// fanOutToUser delivers an event to the locally connected receiver, if any.
func fanOutToUser(userID string, event MessageEvent) {
	hub.mu.RLock()
	conn, ok := hub.connections[userID]
	hub.mu.RUnlock()
	if !ok {
		return
	}

	// Non-blocking best-effort send.
	go func(c MessageConn) {
		if err := c.WriteJSON(event); err != nil {
			log.Printf("error writing message event to websocket: %v", err)
		}
	}(conn)
}

// PublishMessageEvent publishes an event to the receiver's Redis channel;
// called by the send-message handler after the message is persisted.
func PublishMessageEvent(ctx context.Context, receiverID string, event MessageEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return database.RedisClient.Publish(ctx, messageChannelPrefix+receiverID, data).Err()
}

// StartMessageSubscriber ensures a single shared Redis listener per instance.
func StartMessageSubscriber(ctx context.Context) {
	subscriberRun.Do(func() {
		go runMessageSubscriber(ctx)
	})
}

func runMessageSubscriber(ctx context.Context) {
	client := database.RedisClient
	if client == nil {
		log.Println("Redis client not initialized; message subscriber not started")
		return
	}

	backoff := time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		func() {
			pubsub := client.PSubscribe(ctx, messageChannelPrefix+"*")
			defer pubsub.Close()

			log.Println("✅ Message Redis subscriber started (pattern: messages:user:*)")

			for {
				msg, err := pubsub.ReceiveMessage(ctx)
				if err != nil {
					log.Printf("Redis subscriber error: %v", err)
					time.Sleep(backoff)
					backoff *= 2
					if backoff > 30*time.Second {
						backoff = 30 * time.Second
					}
					return
				}

				backoff = time.Second

				var event MessageEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("failed to unmarshal message event: %v", err)
					continue
				}

				receiverID := strings.TrimPrefix(msg.Channel, messageChannelPrefix)
				fanOutToUser(receiverID, event)
			}
		}()
	}
}
