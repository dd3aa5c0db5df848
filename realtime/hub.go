package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Event is what goes over the wire to a subscriber. Name maps to the SSE
// event field; chat messages use "message".
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Subscriber is one live connection of one subject. A subject can hold
// several connections at once (multi-device).
type Subscriber struct {
	SubjectID string
	Outbound  chan Event
	done      chan struct{}
}

// Hub keeps the registry of live subscribers keyed by subject id. Delivery
// is fire-and-forget: a subscriber whose outbound buffer is full has the
// event dropped, there is no replay on reconnect.
type Hub struct {
	mu          sync.RWMutex
	logger      *logrus.Logger
	subscribers map[string]map[*Subscriber]bool
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[string]map[*Subscriber]bool),
	}
}

func (hub *Hub) Attach(subjectID string) *Subscriber {
	subscriber := &Subscriber{
		SubjectID: subjectID,
		Outbound:  make(chan Event, 16),
		done:      make(chan struct{}),
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	connections, exists := hub.subscribers[subjectID]
	if !exists {
		connections = make(map[*Subscriber]bool)
		hub.subscribers[subjectID] = connections
	}
	connections[subscriber] = true

	hub.logger.Println("Realtime subscriber attached:", subjectID)
	return subscriber
}

func (hub *Hub) Detach(subscriber *Subscriber) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	connections, ok := hub.subscribers[subscriber.SubjectID]
	if !ok {
		return
	}
	if _, ok := connections[subscriber]; !ok {
		return
	}
	delete(connections, subscriber)
	if len(connections) == 0 {
		delete(hub.subscribers, subscriber.SubjectID)
	}
	close(subscriber.done)

	hub.logger.Println("Realtime subscriber detached:", subscriber.SubjectID)
}

// Publish delivers the event to every live connection of the subject.
// Unknown subjects are a no-op.
func (hub *Hub) Publish(subjectID string, event Event) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	connections, ok := hub.subscribers[subjectID]
	if !ok {
		return
	}
	for subscriber := range connections {
		select {
		case subscriber.Outbound <- event:
		default:
			hub.logger.Println("Dropping realtime event, outbound buffer full:", subjectID)
		}
	}
}

// ConnectionCount reports live connections for a subject.
func (hub *Hub) ConnectionCount(subjectID string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscribers[subjectID])
}

// Serve writes the subscriber's events as an SSE stream until the client
// disconnects or the subscriber is detached.
func (hub *Hub) Serve(rw http.ResponseWriter, h *http.Request, subscriber *Subscriber) {
	rw.Header().Set("Content-Type", "text/event-stream")
	rw.Header().Set("Cache-Control", "no-cache")
	rw.Header().Set("Connection", "keep-alive")

	flusher, ok := rw.(http.Flusher)
	if !ok {
		http.Error(rw, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-h.Context().Done():
			return
		case <-subscriber.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(rw, ": ping\n\n")
			flusher.Flush()
		case event := <-subscriber.Outbound:
			payload, err := json.Marshal(event.Data)
			if err != nil {
				hub.logger.Println("Failed to marshal realtime event:", err)
				continue
			}
			fmt.Fprintf(rw, "event: %s\n", event.Name)
			fmt.Fprintf(rw, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
