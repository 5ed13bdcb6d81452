package hub

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
)

// Conn is the subset of a websocket connection the hub needs. A live
// connection is held for the duration of a client session and never
// persisted.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// eventQueueCapacity bounds the backlog between emitters and the delivery
// loop; events beyond it are dropped rather than blocking a mutation.
const eventQueueCapacity = 256

// Hub maintains the set of live subscriber connections and broadcasts change
// events emitted by the ticket service. Delivery runs on the hub's own
// goroutine, so a slow subscriber delays only its own writes, never the
// mutation that emitted the event.
type Hub struct {
	mu     sync.Mutex
	conns  map[Conn]struct{}
	queue  chan events.Event
	logger *zap.Logger
}

// NewHub constructs an empty hub and starts its delivery loop.
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		conns:  make(map[Conn]struct{}),
		queue:  make(chan events.Event, eventQueueCapacity),
		logger: logger,
	}
	go h.deliver()
	return h
}

// Close stops the delivery loop. No events may be published afterwards.
func (h *Hub) Close() {
	close(h.queue)
}

// RegisterHandlers subscribes the hub to every update type on the
// dispatcher.
func (h *Hub) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	for _, updateType := range events.UpdateTypes {
		dispatcher.Subscribe(updateType, h.handleEvent)
	}
}

// Register adds a live connection to the subscriber set.
func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = struct{}{}
	h.logger.Debug("subscriber connected", zap.Int("subscribers", len(h.conns)))
}

// Unregister removes a connection from the subscriber set.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	h.logger.Debug("subscriber disconnected", zap.Int("subscribers", len(h.conns)))
}

// Broadcast delivers an event to every live connection. Delivery is
// best-effort: a connection whose write fails is dropped and closed, and the
// fault never reaches the caller.
func (h *Hub) Broadcast(event events.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("dropping subscriber", zap.Error(err))
			delete(h.conns, conn)
			_ = conn.Close()
		}
	}
}

// Subscribers returns the current number of live connections.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// deliver drains the queue on a single goroutine, which keeps per-connection
// frame order equal to emission order.
func (h *Hub) deliver() {
	for event := range h.queue {
		h.Broadcast(event)
	}
}

// handleEvent hands the event to the delivery loop without blocking the
// emitter. A full queue drops the event; delivery is best-effort.
func (h *Hub) handleEvent(ctx context.Context, event events.Event) error {
	select {
	case h.queue <- event:
	default:
		h.logger.Warn("event queue full, dropping event",
			zap.String("ticket_id", event.TicketID),
			zap.String("update_type", string(event.UpdateType)))
	}
	return nil
}
