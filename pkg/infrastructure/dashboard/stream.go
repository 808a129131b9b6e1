package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jalvemo/planera/pkg/domain/events"
)

// streamEnvelope is the wire form of a scheduling event on /events
// and /ws.
type streamEnvelope struct {
	Type      string    `json:"type"`
	JobID     string    `json:"job_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

func envelope(event events.DomainEvent) streamEnvelope {
	return streamEnvelope{
		Type:      event.EventType(),
		JobID:     event.JobID(),
		Timestamp: event.OccurredAt(),
		Payload:   event,
	}
}

// streamHub fans scheduling events out to connected SSE and WebSocket
// clients. Slow clients drop events rather than stall the dispatcher.
type streamHub struct {
	mu      sync.RWMutex
	clients map[chan events.DomainEvent]struct{}
}

func newStreamHub(dispatcher *events.Dispatcher) *streamHub {
	h := &streamHub{
		clients: make(map[chan events.DomainEvent]struct{}),
	}

	if dispatcher != nil {
		dispatcher.RegisterWildcard("dashboard-stream", func(ctx context.Context, e events.DomainEvent) error {
			h.broadcast(e)
			return nil
		})
	}

	return h
}

func (h *streamHub) broadcast(event events.DomainEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			// Drop if client is slow
		}
	}
}

func (h *streamHub) subscribe() chan events.DomainEvent {
	ch := make(chan events.DomainEvent, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *streamHub) unsubscribe(ch chan events.DomainEvent) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
	close(ch)
}

// handleEvents streams scheduling events as Server-Sent Events. An
// optional ?types=a,b query restricts the stream to those event types.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	typeFilter := parseTypeFilter(r)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	// Complete the handshake now; the client must see the response
	// headers before the first event is dispatched.
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if len(typeFilter) > 0 && !typeFilter[event.EventType()] {
				continue
			}

			data, err := json.Marshal(envelope(event))
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\n", event.EventType())
			_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is a local tool; cross-origin pages may connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS streams scheduling events over a WebSocket connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	typeFilter := parseTypeFilter(r)

	ch := s.hub.subscribe()
	defer s.hub.unsubscribe(ch)

	// Drain reads so close frames and pings are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if len(typeFilter) > 0 && !typeFilter[event.EventType()] {
				continue
			}
			if err := conn.WriteJSON(envelope(event)); err != nil {
				return
			}
		}
	}
}

func parseTypeFilter(r *http.Request) map[string]bool {
	filter := make(map[string]bool)
	if types := r.URL.Query().Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			filter[strings.TrimSpace(t)] = true
		}
	}
	return filter
}
