// Package ws fans kitchen events out to every connected display over a
// persistent websocket channel.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"pos/internal/core/domain/model/kitchen"

	"golang.org/x/net/websocket"
)

// DefaultBuffer is the outbound queue length of one subscriber.
const DefaultBuffer = 32

// Hub delivers each message at most once to every subscriber present when it is
// broadcast. Subscribers joining later see only later messages.
//
// Every subscriber owns a buffered queue drained by its own writer, so a slow
// display only loses its own messages once its queue is full. Broadcast never
// blocks on delivery.
type Hub struct {
	buffer int
	logger *slog.Logger

	mu   sync.RWMutex
	subs map[*Subscription]struct{}

	dropped atomic.Int64
}

func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer: buffer,
		logger: logger.With("component", "ws_hub"),
		subs:   make(map[*Subscription]struct{}),
	}
}

// Subscription is one registered receiver. Messages arrive on C in broadcast
// order; C is closed by Close.
type Subscription struct {
	hub   *Hub
	queue chan []byte
	once  sync.Once
}

// C returns the outbound queue.
func (s *Subscription) C() <-chan []byte {
	return s.queue
}

// Close removes the subscription from its hub. It is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s)
		close(s.queue)
		s.hub.mu.Unlock()
	})
}

// Subscribe registers a new receiver.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{hub: h, queue: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Broadcast queues msg for every current subscriber. A subscriber whose queue is
// full misses msg.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs {
		select {
		case s.queue <- msg:
		default:
			h.dropped.Add(1)
			h.logger.Warn("subscriber queue full, message dropped", "size", len(msg))
		}
	}
}

// Publish encodes event and broadcasts it.
func (h *Hub) Publish(_ context.Context, event kitchen.Event) error {
	msg, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped returns the number of messages lost to full queues.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close ends every subscription, which disconnects all served displays.
func (h *Hub) Close() {
	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		s.Close()
	}
}

// Handler serves the channel. The connection is read only to notice the peer
// going away; anything a display sends is ignored.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(h.serve)
}

func (h *Hub) serve(conn *websocket.Conn) {
	defer func() {
		_ = conn.Close()
	}()

	sub := h.Subscribe()
	defer sub.Close()

	remote := conn.Request().RemoteAddr
	h.logger.Debug("display connected", "remote", remote, "subscribers", h.Len())

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		var discard []byte
		for {
			if err := websocket.Message.Receive(conn, &discard); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-sub.C():
			if !ok {
				return
			}
			if err := websocket.Message.Send(conn, string(msg)); err != nil {
				h.logger.Debug("display write failed", "remote", remote, "error", err)
				return
			}
		case <-gone:
			h.logger.Debug("display disconnected", "remote", remote)
			return
		}
	}
}
