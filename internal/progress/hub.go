package progress

import (
	"sync"

	"video-compressor/internal/models"
	"video-compressor/pkg/logger"
)

// Conn is the transport side of one observer. *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Broadcaster is what progress producers depend on.
type Broadcaster interface {
	Broadcast(event models.ProgressEvent)
}

// sendBufferSize bounds the per-observer event backlog. Progress updates
// are fire-and-forget control messages, so a consumer that falls further
// behind than this just misses events.
const sendBufferSize = 32

type observer struct {
	conn Conn
	send chan models.ProgressEvent
}

// Hub owns the set of connected progress observers and fans events out
// to all of them. Register, Unregister and Broadcast are safe for
// concurrent use. Each observer gets its own buffered writer goroutine,
// so a slow or stalled peer never blocks Broadcast, the other observers,
// or the transcode loop feeding the hub: events for a full buffer are
// dropped, and a failed write unregisters the observer.
type Hub struct {
	mu        sync.Mutex
	observers map[Conn]*observer
	logger    logger.Logger
}

func NewHub(logger logger.Logger) *Hub {
	return &Hub{
		observers: make(map[Conn]*observer),
		logger:    logger,
	}
}

func (h *Hub) Register(conn Conn) {
	obs := &observer{
		conn: conn,
		send: make(chan models.ProgressEvent, sendBufferSize),
	}
	h.mu.Lock()
	h.observers[conn] = obs
	h.mu.Unlock()
	go h.writeLoop(obs)
}

// Unregister removes an observer and stops its writer. Removing an
// absent connection is a no-op.
func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if obs, ok := h.observers[conn]; ok {
		delete(h.observers, conn)
		close(obs.send)
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.observers)
}

// Broadcast queues the event for every registered observer and returns
// without waiting on any of them. The percent is clamped to [0,100]
// since ffmpeg can over- or under-report near the edges due to duration
// drift.
func (h *Hub) Broadcast(event models.ProgressEvent) {
	event.Progress = clamp(event.Progress, 0, 100)

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, obs := range h.observers {
		select {
		case obs.send <- event:
		default:
			h.logger.Warnf("observer is not keeping up, dropping progress event")
		}
	}
}

// writeLoop drains one observer's queue. Sends to obs.send only happen
// under the hub mutex while the observer is still in the map, and
// Unregister closes the channel under that same mutex, so the loop
// terminates cleanly exactly once.
func (h *Hub) writeLoop(obs *observer) {
	for event := range obs.send {
		if err := obs.conn.WriteJSON(event); err != nil {
			h.logger.Warnf("dropping progress observer, send failed: %v", err)
			h.Unregister(obs.conn)
			return
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
